package resolve

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Resolve(t *testing.T) {
	p, err := Path("/tmp/a.txt").ResolvePath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.txt", p)

	_, err = Path("").ResolvePath(context.Background())
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestData_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"file url", "file:///tmp/My%20File.txt", "/tmp/My File.txt", false},
		{"localhost url", "file://localhost/tmp/a", "/tmp/a", false},
		{"trailing nul", "file:///tmp/a.txt\x00", "/tmp/a.txt", false},
		{"plain path", "/var/data/x.bin\n", "/var/data/x.bin", false},
		{"http url", "https://example.com/a.txt", "", true},
		{"remote host", "file://server/share/a", "", true},
		{"empty", "  ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Data(tt.payload).ResolvePath(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnresolvable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalURLPath(t *testing.T) {
	assert.Equal(t, "C:/dir/a.txt", localURLPath("/C:/dir/a.txt", "windows"))
	assert.Equal(t, "d:/a", localURLPath("/d:/a", "windows"))
	assert.Equal(t, "/dir/a.txt", localURLPath("/dir/a.txt", "windows"))
	assert.Equal(t, "/1:/a", localURLPath("/1:/a", "windows"))
	assert.Equal(t, "/C:/dir/a.txt", localURLPath("/C:/dir/a.txt", "linux"))
}

func TestFileURLPath_DriveLetter(t *testing.T) {
	got, err := FileURLPath("file:///C:/dir/a.txt")
	require.NoError(t, err)
	if runtime.GOOS == "windows" {
		assert.Equal(t, `C:\dir\a.txt`, got)
	} else {
		assert.Equal(t, "/C:/dir/a.txt", got)
	}
}

func TestResolve_DropsFailuresKeepsOrder(t *testing.T) {
	r := &Resolver{Workers: 4, Log: zerolog.Nop()}
	handles := []Handle{
		Path("/b/two"),
		Func(func(context.Context) (string, error) { return "", errors.New("provider error") }),
		Data("file:///a/one"),
		Data("https://example.com/x"),
		nil,
		Path("/c/three"),
	}

	got := r.Resolve(context.Background(), handles)
	assert.Equal(t, []string{"/b/two", "/a/one", "/c/three"}, got)
}

func TestResolve_Dedup(t *testing.T) {
	r := &Resolver{Log: zerolog.Nop()}
	got := r.Resolve(context.Background(), []Handle{
		Path("/a/one"),
		Data("file:///a/one"),
		Path("/a/./one"),
	})
	assert.Equal(t, []string{"/a/one"}, got)
}

func TestResolve_Empty(t *testing.T) {
	r := &Resolver{Log: zerolog.Nop()}
	assert.Empty(t, r.Resolve(context.Background(), nil))
	assert.Empty(t, r.Resolve(context.Background(), []Handle{Data(""), Data("ftp://host/a")}))
}

func TestResolve_Concurrent(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() { started.Wait(); close(allStarted) }()

	handles := make([]Handle, n)
	for i := range handles {
		path := "/f/" + string(rune('a'+i))
		handles[i] = Func(func(context.Context) (string, error) {
			started.Done()
			select {
			case <-allStarted:
				return path, nil
			case <-time.After(5 * time.Second):
				return "", errors.New("handles were not resolved concurrently")
			}
		})
	}

	r := &Resolver{Workers: n, Log: zerolog.Nop()}
	got := r.Resolve(context.Background(), handles)
	assert.Len(t, got, n)
}

func TestResolve_WorkerLimit(t *testing.T) {
	var active, peak atomic.Int32
	handles := make([]Handle, 12)
	for i := range handles {
		path := "/f/" + string(rune('a'+i))
		handles[i] = Func(func(context.Context) (string, error) {
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return path, nil
		})
	}

	r := &Resolver{Workers: 2, Log: zerolog.Nop()}
	got := r.Resolve(context.Background(), handles)
	assert.Len(t, got, 12)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Resolver{Log: zerolog.Nop()}
	assert.Empty(t, r.Resolve(ctx, []Handle{Path("/a")}))
}
