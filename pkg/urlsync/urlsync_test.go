package urlsync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reviewmsg/pkg/placeholder"
	"reviewmsg/pkg/shopurl"
	"reviewmsg/pkg/textbuf"
)

type fakeResolver struct {
	mu    sync.Mutex
	res   shopurl.Resolution
	err   error
	calls []string
	gate  map[string]chan struct{}
	urls  map[string]string
}

func (f *fakeResolver) Resolve(ctx context.Context, shopID string) (shopurl.Resolution, error) {
	f.mu.Lock()
	f.calls = append(f.calls, shopID)
	gate := f.gate[shopID]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if url, ok := f.urls[shopID]; ok {
		return shopurl.Resolution{Success: true, URL: url}, nil
	}
	return f.res, f.err
}

const template = "本日はご来店ありがとうございました！\n\n" +
	"こちらのURLから口コミも書いていただけると嬉しいです！（http://old.example/abc）\n\n" +
	"次回は少し早めのメンテナンスがおすすめです！"

func TestSync(t *testing.T) {
	tests := []struct {
		name       string
		shopID     string
		text       string
		res        shopurl.Resolution
		err        error
		want       Result
		wantText   string
		wantCalled bool
	}{
		{
			name:       "rewrites url",
			shopID:     "shop_002",
			text:       template,
			res:        shopurl.Resolution{Success: true, URL: "http://new.example/xyz"},
			want:       Updated,
			wantText:   "本日はご来店ありがとうございました！\n\nこちらのURLから口コミも書いていただけると嬉しいです！（http://new.example/xyz）\n\n次回は少し早めのメンテナンスがおすすめです！",
			wantCalled: true,
		},
		{
			name:     "empty identifier",
			shopID:   "",
			text:     template,
			res:      shopurl.Resolution{Success: true, URL: "http://new.example/xyz"},
			want:     Skipped,
			wantText: template,
		},
		{
			name:       "transport failure",
			shopID:     "shop_001",
			text:       template,
			err:        errors.New("connection refused"),
			want:       ResolveFailed,
			wantText:   template,
			wantCalled: true,
		},
		{
			name:       "rejected",
			shopID:     "shop_999",
			text:       template,
			res:        shopurl.Resolution{Success: false},
			want:       Rejected,
			wantText:   template,
			wantCalled: true,
		},
		{
			name:       "lead phrase edited away",
			shopID:     "shop_001",
			text:       "口コミお願いします（http://old.example/abc）",
			res:        shopurl.Resolution{Success: true, URL: "http://new.example/xyz"},
			want:       PatternMissing,
			wantText:   "口コミお願いします（http://old.example/abc）",
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeResolver{res: tt.res, err: tt.err}
			buf := textbuf.New(tt.text)

			got := New(r, nil).Sync(context.Background(), tt.shopID, buf)

			if got != tt.want {
				t.Errorf("Sync() = %v, want %v", got, tt.want)
			}
			if buf.Text() != tt.wantText {
				t.Errorf("buffer = %q, want %q", buf.Text(), tt.wantText)
			}
			if called := len(r.calls) > 0; called != tt.wantCalled {
				t.Errorf("resolver called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestSync_UntouchedWithoutPatternForAnyOutcome(t *testing.T) {
	text := "ありがとうございました！口コミURL: http://old.example/abc"
	outcomes := []*fakeResolver{
		{res: shopurl.Resolution{Success: true, URL: "http://new"}},
		{res: shopurl.Resolution{Success: false}},
		{err: errors.New("timeout")},
	}
	for _, r := range outcomes {
		buf := textbuf.New(text)
		New(r, nil).Sync(context.Background(), "shop_001", buf)
		if buf.Text() != text {
			t.Errorf("buffer changed to %q", buf.Text())
		}
	}
}

func TestSync_SyntheticPattern(t *testing.T) {
	p, err := placeholder.New("Please review us (", ")")
	if err != nil {
		t.Fatalf("placeholder.New() returned error: %v", err)
	}
	buf := textbuf.New("Thanks!\nPlease review us ()\nBye")
	r := &fakeResolver{res: shopurl.Resolution{Success: true, URL: "https://r.example/1"}}

	if got := New(r, p).Sync(context.Background(), "s1", buf); got != Updated {
		t.Fatalf("Sync() = %v, want updated", got)
	}
	if buf.Text() != "Thanks!\nPlease review us (https://r.example/1)\nBye" {
		t.Errorf("buffer = %q", buf.Text())
	}
}

func TestGo_LastResolutionWins(t *testing.T) {
	r := &fakeResolver{
		gate: map[string]chan struct{}{
			"shop_001": make(chan struct{}),
			"shop_002": make(chan struct{}),
		},
		urls: map[string]string{
			"shop_001": "https://g.page/r/example1/review",
			"shop_002": "https://g.page/r/example2/review",
		},
	}
	buf := textbuf.New(template)
	s := New(r, nil)

	first := s.Go(context.Background(), "shop_001", buf)
	second := s.Go(context.Background(), "shop_002", buf)

	// shop_002 resolves first, shop_001 last.
	close(r.gate["shop_002"])
	if got := <-second; got != Updated {
		t.Fatalf("second = %v", got)
	}
	close(r.gate["shop_001"])
	if got := <-first; got != Updated {
		t.Fatalf("first = %v", got)
	}

	seg, _ := placeholder.Default().Find(buf.Text())
	if seg != "https://g.page/r/example1/review" {
		t.Errorf("segment = %q, want the last resolved url", seg)
	}
}

func TestResultString(t *testing.T) {
	if Updated.String() != "updated" || PatternMissing.String() != "pattern-missing" {
		t.Error("unexpected Result strings")
	}
	if Result(42).String() != "unknown" {
		t.Error("out of range Result should be unknown")
	}
}
