package archiver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrchestrator(fetcher *fakeFetcher, store *fakeStore) *Orchestrator {
	worker := newTestWorker(fetcher, store)
	return NewOrchestrator(fetcher, worker, OrchestratorConfig{
		RootURL:    testRoot,
		StoryLimit: 30,
	}, zap.NewNop())
}

func frontPage(rows string) []byte {
	return []byte("<html><body><table>" + rows + "</table></body></html>")
}

func TestOrchestrator_ArchivesAllStories(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.responses[testRoot] = frontPage(
		`<tr class="athing" id="1"><td><a class="titlelink" href="http://a.test/">A</a></td></tr>` +
			`<tr class="athing" id="2"><td><a class="titlelink" href="http://b.test/">B</a></td></tr>`,
	)
	fetcher.responses["http://a.test/"] = []byte("<html>a</html>")
	fetcher.responses["http://b.test/"] = []byte("<html>b</html>")
	fetcher.responses[testRoot+"item?id=1"] = []byte("<html>no tree</html>")
	fetcher.responses[testRoot+"item?id=2"] = []byte("<html>no tree</html>")

	store := newFakeStore()
	require.NoError(t, newTestOrchestrator(fetcher, store).RunIteration(context.Background()))

	assert.Contains(t, store.saves, "1/A.html")
	assert.Contains(t, store.saves, "2/B.html")
}

func TestOrchestrator_FrontPageFailureFailsIteration(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.errs[testRoot] = errors.New("front page unreachable")

	store := newFakeStore()
	err := newTestOrchestrator(fetcher, store).RunIteration(context.Background())
	require.Error(t, err)
	assert.Zero(t, store.saveCount())
}

func TestOrchestrator_StoryFailureDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher()
	fetcher.responses[testRoot] = frontPage(
		`<tr class="athing" id="1"><td><a class="titlelink" href="http://a.test/">A</a></td></tr>` +
			`<tr class="athing" id="2"><td><a class="titlelink" href="http://b.test/">B</a></td></tr>`,
	)
	fetcher.errs["http://a.test/"] = errors.New("dead link")
	fetcher.responses["http://b.test/"] = []byte("<html>b</html>")
	fetcher.responses[testRoot+"item?id=2"] = []byte("<html>no tree</html>")

	store := newFakeStore()
	require.NoError(t, newTestOrchestrator(fetcher, store).RunIteration(context.Background()))

	assert.NotContains(t, store.saves, "1/A.html")
	assert.Contains(t, store.saves, "2/B.html")
}
