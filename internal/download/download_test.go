package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytmp3/internal/catalog"
	"ytmp3/internal/progress"
	"ytmp3/internal/services"
)

func TestSelectBest(t *testing.T) {
	streams := []catalog.StreamDescriptor{
		{Itag: 18, Bitrate: 500000, AudioOnly: false},
		{Itag: 140, Bitrate: 128000, AudioOnly: true},
		{Itag: 249, Bitrate: 64000, AudioOnly: true},
		{Itag: 251, Bitrate: 128000, AudioOnly: true},
	}
	got, err := SelectBest(streams)
	if err != nil {
		t.Fatalf("SelectBest: %v", err)
	}
	if got.Itag != 140 {
		t.Fatalf("itag = %d, want first of the tied streams (140)", got.Itag)
	}
}

func TestSelectBestNoAudio(t *testing.T) {
	_, err := SelectBest([]catalog.StreamDescriptor{{Itag: 18, Bitrate: 1, AudioOnly: false}})
	if !errors.Is(err, services.ErrNoAudioStream) {
		t.Fatalf("expected ErrNoAudioStream, got %v", err)
	}
	if _, err := SelectBest(nil); !errors.Is(err, services.ErrNoAudioStream) {
		t.Fatalf("expected ErrNoAudioStream for empty manifest, got %v", err)
	}
}

type fakeCatalog struct {
	video    catalog.Video
	manifest *catalog.Manifest
	payload  []byte
	size     int64
	videoErr error
	listErr  error
	openErr  error
	readErr  error
	opened   []int
}

func (f *fakeCatalog) Video(context.Context, catalog.VideoRef) (catalog.Video, error) {
	return f.video, f.videoErr
}

func (f *fakeCatalog) Manifest(context.Context, catalog.VideoRef) (*catalog.Manifest, error) {
	return f.manifest, f.listErr
}

func (f *fakeCatalog) OpenStream(_ context.Context, _ catalog.VideoRef, s catalog.StreamDescriptor) (io.ReadCloser, int64, error) {
	f.opened = append(f.opened, s.Itag)
	if f.openErr != nil {
		return nil, 0, f.openErr
	}
	var r io.Reader = bytes.NewReader(f.payload)
	if f.readErr != nil {
		r = io.MultiReader(r, errReader{f.readErr})
	}
	return io.NopCloser(r), f.size, nil
}

func (f *fakeCatalog) Playlist(context.Context, catalog.PlaylistRef) (catalog.Playlist, error) {
	return catalog.Playlist{}, nil
}

func (f *fakeCatalog) WatchPage(context.Context, catalog.VideoRef) ([]byte, error) {
	return nil, nil
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func twoStreamManifest() *catalog.Manifest {
	return &catalog.Manifest{VideoID: "dQw4w9WgXcQ", Streams: []catalog.StreamDescriptor{
		{Itag: 249, Bitrate: 64000, Container: "webm", AudioOnly: true},
		{Itag: 140, Bitrate: 128000, Container: "m4a", AudioOnly: true},
	}}
}

func TestDownloadAudioSelectsBestAndReachesCompletion(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 4096)
	cat := &fakeCatalog{
		video:    catalog.Video{ID: "dQw4w9WgXcQ", Title: "AC/DC: Live?"},
		manifest: twoStreamManifest(),
		payload:  payload,
		size:     int64(len(payload)),
	}
	var screen bytes.Buffer
	d := New(cat, t.TempDir(), progress.NewWriterFactory(&screen, true, nil), nil)

	file, err := d.DownloadAudio(context.Background(), catalog.VideoRef{ID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	t.Cleanup(func() { _ = file.Remove() })

	if len(cat.opened) != 1 || cat.opened[0] != 140 {
		t.Fatalf("opened itags = %v, want [140]", cat.opened)
	}
	if got := filepath.Base(file.Path); got != "AC_DC_ Live_.m4a" {
		t.Fatalf("file name = %q", got)
	}
	if filepath.Dir(file.Path) != file.Dir {
		t.Fatalf("file %s not inside scratch dir %s", file.Path, file.Dir)
	}
	data, err := os.ReadFile(file.Path)
	if err != nil || len(data) != len(payload) {
		t.Fatalf("payload mismatch: %d bytes, err=%v", len(data), err)
	}
	if !strings.Contains(screen.String(), "100.0%") || !strings.HasSuffix(screen.String(), "done\n") {
		t.Fatalf("progress did not reach completion: %q", screen.String())
	}
}

func TestDownloadAudioUnknownSizeReportsOnlyCompletion(t *testing.T) {
	cat := &fakeCatalog{
		video:    catalog.Video{ID: "dQw4w9WgXcQ", Title: "Song"},
		manifest: twoStreamManifest(),
		payload:  []byte("abc"),
		size:     -1,
	}
	var screen bytes.Buffer
	d := New(cat, t.TempDir(), progress.NewWriterFactory(&screen, true, nil), nil)

	file, err := d.DownloadAudio(context.Background(), catalog.VideoRef{ID: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	t.Cleanup(func() { _ = file.Remove() })
	if got := strings.Count(screen.String(), "%"); got != 1 {
		t.Fatalf("expected a single percentage render, got %d in %q", got, screen.String())
	}
}

func TestDownloadAudioNoManifest(t *testing.T) {
	cat := &fakeCatalog{video: catalog.Video{ID: "dQw4w9WgXcQ", Title: "Song"}}
	root := t.TempDir()
	d := New(cat, root, nil, nil)

	_, err := d.DownloadAudio(context.Background(), catalog.VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, services.ErrManifestUnavailable) {
		t.Fatalf("expected ErrManifestUnavailable, got %v", err)
	}
	assertEmptyDir(t, root)
}

func TestDownloadAudioCatalogErrorsNameVideo(t *testing.T) {
	failed := services.Wrap(services.ErrTransient, "download", "video", "catalog request failed", errors.New("503"))
	restricted := services.Wrap(services.ErrManifestUnavailable, "download", "manifest", "video is restricted", errors.New("login required"))
	tests := []struct {
		name   string
		cat    *fakeCatalog
		marker error
	}{
		{"video", &fakeCatalog{videoErr: failed}, services.ErrTransient},
		{"manifest", &fakeCatalog{listErr: restricted}, services.ErrManifestUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			d := New(tt.cat, root, nil, nil)
			_, err := d.DownloadAudio(context.Background(), catalog.VideoRef{ID: "dQw4w9WgXcQ"})
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
			if !strings.HasPrefix(err.Error(), "dQw4w9WgXcQ: ") {
				t.Fatalf("error does not name the video: %v", err)
			}
			assertEmptyDir(t, root)
		})
	}
}

func TestDownloadAudioFailureRemovesScratch(t *testing.T) {
	cat := &fakeCatalog{
		video:    catalog.Video{ID: "dQw4w9WgXcQ", Title: "Song"},
		manifest: twoStreamManifest(),
		payload:  []byte("partial"),
		size:     100,
		readErr:  errors.New("connection reset"),
	}
	root := t.TempDir()
	d := New(cat, root, nil, nil)

	_, err := d.DownloadAudio(context.Background(), catalog.VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, services.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
	assertEmptyDir(t, root)
}

func TestDownloadAudioCancelled(t *testing.T) {
	cat := &fakeCatalog{
		video:    catalog.Video{ID: "dQw4w9WgXcQ", Title: "Song"},
		manifest: twoStreamManifest(),
		payload:  []byte("data"),
		size:     4,
	}
	root := t.TempDir()
	d := New(cat, root, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.DownloadAudio(ctx, catalog.VideoRef{ID: "dQw4w9WgXcQ"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	assertEmptyDir(t, root)
}

func TestScratchFileRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := (ScratchFile{Dir: dir}).Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected dir removed, stat err=%v", err)
	}
	if err := (ScratchFile{}).Remove(); err != nil {
		t.Fatalf("zero value Remove: %v", err)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}
