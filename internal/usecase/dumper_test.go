package usecase

import (
	"context"
	"strings"
	"testing"

	"WxCrawler/internal/domain"
)

func TestDumpAccountsReportsCount(t *testing.T) {
	t.Parallel()

	const queryURL = searchRoot + "?query=kw&_sug_type_=&s_from=input&_sug_=y&type=1&ie=utf8"
	pages := map[string]string{queryURL: "<html></html>"}

	discoverer, accounts, _ := newDiscoverFixture(&fakeResults{pages: []resultPage{{}}}, pages)
	accounts.byHandle["existing1"] = &domain.Account{Handle: "existing1"}
	accounts.byHandle["existing2"] = &domain.Account{Handle: "existing2"}

	notifier := &fakeNotifier{}
	dumper := NewDumper(discoverer, accounts, notifier, discardLogger())

	if err := dumper.DumpAccounts(context.Background(), "kw"); err != nil {
		t.Fatalf("DumpAccounts returned error: %v", err)
	}

	if len(notifier.reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(notifier.reports))
	}
	if !strings.Contains(notifier.reports[0], "2 accounts known") {
		t.Fatalf("unexpected report: %q", notifier.reports[0])
	}
}

func TestDumpAccountsDiscoveryFailure(t *testing.T) {
	t.Parallel()

	// No pages registered: the very first fetch fails and propagates.
	discoverer, accounts, _ := newDiscoverFixture(&fakeResults{}, map[string]string{})
	dumper := NewDumper(discoverer, accounts, nil, discardLogger())

	if err := dumper.DumpAccounts(context.Background(), "kw"); err == nil {
		t.Fatal("expected fetch failure to propagate")
	}
}
