package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"inkwell/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare opens debug report archive. When destination cannot be created
// the report goes to temporary directory, caller learns the final location
// from Name.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, items: make(map[string]item)}, nil
}

// item is a single archive member. Either path is read when archive is
// written (logs, exported books) or data was captured at the time of the
// call (snapshots, store copies).
type item struct {
	path  string
	data  []byte
	stamp time.Time
}

func (it item) captured() bool {
	return it.data != nil
}

// Report collects what is needed to troubleshoot a single inkwell run:
// configuration, logs, snapshots before and after the action and the
// store as it was on disk. Not safe for concurrent use.
type Report struct {
	file  *os.File
	items map[string]item
}

// Name returns absolute path of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store registers file which will be put into report as it is at the time
// of Close. All methods are no-op on nil report so callers do not need to
// check whether report was requested.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, ok := r.items[name]; ok && old.path != path {
		panic(fmt.Sprintf("report entry [%s] already points to %s, refusing %s", name, old.path, path))
	}
	r.items[name] = item{path: path}
}

// StoreData puts data into report under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, ok := r.items[name]; ok {
		panic(fmt.Sprintf("report entry [%s] already has data", name))
	}
	if data == nil {
		data = []byte{}
	}
	r.items[name] = item{data: data, stamp: time.Now()}
}

// StoreCopy captures current content of the file. The same name may be
// used repeatedly, later copies get timestamp suffix. It returns the name
// the copy was stored under.
func (r *Report) StoreCopy(name, path string) (string, error) {
	if r == nil {
		return "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("unable to copy %s into report: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	stamp := time.Now()
	if _, ok := r.items[name]; ok {
		name = fmt.Sprintf("%s-%d", name, stamp.UnixNano())
	}
	r.items[name] = item{path: path, data: data, stamp: info.ModTime()}
	return name, nil
}

// Close writes the archive. Entries pointing to files which do not exist
// by then are listed in manifest only.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	arc := zip.NewWriter(r.file)
	names := slices.Sorted(maps.Keys(r.items))
	if err := writeMember(arc, "MANIFEST", time.Now(), bytes.NewReader(r.manifest(names))); err != nil {
		return err
	}
	for _, name := range names {
		if err := r.writeItem(arc, name, r.items[name]); err != nil {
			return fmt.Errorf("unable to put %s into report: %w", name, err)
		}
	}
	return arc.Close()
}

func (r *Report) manifest(names []string) []byte {
	var buf bytes.Buffer
	now := time.Now()
	for _, name := range names {
		it := r.items[name]
		stamp, kind := it.stamp, "live"
		if stamp.IsZero() {
			stamp = now
		}
		if it.captured() {
			kind = "captured"
		}
		fmt.Fprintf(&buf, "%s\t%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), kind, name, it.path)
	}
	return buf.Bytes()
}

func (r *Report) writeItem(arc *zip.Writer, name string, it item) error {
	if it.captured() {
		return writeMember(arc, name, it.stamp, bytes.NewReader(it.data))
	}
	info, err := os.Stat(it.path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(it.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeMember(arc, name, info.ModTime(), f)
}

func writeMember(arc *zip.Writer, name string, modified time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
