package resolvers

import (
	"errors"
	"testing"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/options"
)

type fakeResolver struct {
	name     string
	priority int
	item     *catalog.Item
	err      error
	panics   bool
	calls    int
}

func (f *fakeResolver) Name() string  { return f.name }
func (f *fakeResolver) Priority() int { return f.priority }

func (f *fakeResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	f.calls++
	if f.panics {
		panic("resolver exploded")
	}
	return f.item, f.err
}

type fakeMultiResolver struct {
	fakeResolver
	result   *MultiResult
	multiErr error
}

func (f *fakeMultiResolver) ResolveMultiple(rctx *Context, files []fsops.Entry) (*MultiResult, error) {
	return f.result, f.multiErr
}

func TestChainPriorityOrder(t *testing.T) {
	first := &fakeResolver{name: "first", priority: 10, item: &catalog.Item{Kind: catalog.KindVideo, Name: "first"}}
	second := &fakeResolver{name: "second", priority: 50, item: &catalog.Item{Kind: catalog.KindVideo, Name: "second"}}
	chain := NewChain(second, first)

	item := chain.Resolve(&Context{Path: "/media/x.mkv", Name: "x.mkv"})
	if item == nil || item.Name != "first" {
		t.Fatalf("Expected the priority 10 resolver to win, got %+v", item)
	}
	if second.calls != 0 {
		t.Errorf("Expected the match to short-circuit, priority 50 resolver ran %d times", second.calls)
	}
}

func TestChainPanicDoesNotBlockSiblings(t *testing.T) {
	angry := &fakeResolver{name: "angry", priority: 1, panics: true}
	chain := NewChain(angry, &FolderResolver{})

	for _, name := range []string{"first", "second"} {
		item := chain.Resolve(&Context{Path: "/media/" + name, Name: name, IsDir: true})
		if item == nil || item.Kind != catalog.KindFolder {
			t.Fatalf("Expected folder item for %s despite the panicking resolver, got %+v", name, item)
		}
	}
	if angry.calls != 2 {
		t.Errorf("Expected the panicking resolver to run for each entry, got %d calls", angry.calls)
	}
}

func TestChainErrorSkipsToNextResolver(t *testing.T) {
	broken := &fakeResolver{name: "broken", priority: 1, err: errors.New("disk on fire")}
	chain := NewChain(broken, &FolderResolver{})

	item := chain.Resolve(&Context{Path: "/media/dir", Name: "dir", IsDir: true})
	if item == nil || item.Kind != catalog.KindFolder {
		t.Fatalf("Expected the folder resolver to take over after an error, got %+v", item)
	}
}

func TestChainNoMatchReturnsNil(t *testing.T) {
	chain := Default(nil)

	tests := []struct {
		name string
		rctx *Context
	}{
		{"unrecognized extension", &Context{Path: "/media/movies/readme.txt", Name: "readme.txt", Hint: options.ContentMovies}},
		{"audio outside music libraries", &Context{Path: "/media/movies/score.mp3", Name: "score.mp3", Hint: options.ContentMovies}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if item := chain.Resolve(tt.rctx); item != nil {
				t.Errorf("Expected nil for %s, got %+v", tt.rctx.Name, item)
			}
		})
	}
}

func TestResolveMultipleFirstNonEmptyWins(t *testing.T) {
	empty := &fakeMultiResolver{
		fakeResolver: fakeResolver{name: "empty", priority: 0},
		result:       &MultiResult{},
	}
	chain := NewChain(empty, &MovieResolver{})

	files := []fsops.Entry{
		{Name: "Movie (2020).mkv", Path: "/media/movies/Movie (2020)/Movie (2020).mkv"},
	}
	rctx := &Context{
		Path:  "/media/movies/Movie (2020)",
		Name:  "Movie (2020)",
		IsDir: true,
		Hint:  options.ContentMovies,
	}

	result := chain.ResolveMultiple(rctx, files)
	if result == nil || len(result.Items) != 1 {
		t.Fatalf("Expected the movie resolver to win after the empty result, got %+v", result)
	}
	if result.Items[0].Kind != catalog.KindMovie {
		t.Errorf("Expected a movie item, got %s", result.Items[0].Kind)
	}
}

func TestResolveMultiplePanicIsContained(t *testing.T) {
	chain := NewChain(&panickyMultiResolver{}, &MovieResolver{})

	files := []fsops.Entry{
		{Name: "Movie (2020).mkv", Path: "/media/movies/Movie (2020)/Movie (2020).mkv"},
	}
	rctx := &Context{
		Path:  "/media/movies/Movie (2020)",
		Name:  "Movie (2020)",
		IsDir: true,
		Hint:  options.ContentMovies,
	}

	result := chain.ResolveMultiple(rctx, files)
	if result == nil || len(result.Items) != 1 {
		t.Fatalf("Expected the movie resolver to win after the panic, got %+v", result)
	}
}

type panickyMultiResolver struct{}

func (*panickyMultiResolver) Name() string  { return "panicky" }
func (*panickyMultiResolver) Priority() int { return 0 }

func (*panickyMultiResolver) Resolve(rctx *Context) (*catalog.Item, error) {
	return nil, nil
}

func (*panickyMultiResolver) ResolveMultiple(rctx *Context, files []fsops.Entry) (*MultiResult, error) {
	panic("folder resolution exploded")
}
