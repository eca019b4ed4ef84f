package equivalence

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Entry is an EquivalenceCacheEntry: the source and destination mtimes
// observed the last time source was compared, and the verdict reached.
type Entry struct {
	SourceMtime time.Time
	DestMtime   time.Time
	Equivalent  bool
}

// Cache is the on-disk, source-path-keyed equivalence cache of §4.2. The
// whole file is tagged with the driving config's mtime; a mismatch on load
// invalidates (drops) the entire cache rather than any individual record.
type Cache struct {
	path    string
	entries map[string]Entry
}

// recordSeparator (NUL) splits a record's path from its fixed-width
// payload; newline terminates each record.
const (
	recordSeparator byte = 0x00
	recordTerminator byte = 0x0A
)

// Load reads the cache at path. If the file does not exist, a fresh empty
// cache tagged with configMtime is returned (no error: an absent cache is
// not corruption). If the stored config-mtime header does not match
// configMtime, or any record is truncated/unparseable, the entire cache is
// silently discarded and an empty cache is returned — per §7's
// CacheCorruption policy, this is never fatal.
func Load(path string, configMtime time.Time) *Cache {
	c := &Cache{path: path, entries: map[string]Entry{}}

	f, err := os.Open(path)
	if err != nil {
		return c
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var headerBuf [8]byte
	if _, err := io.ReadFull(r, headerBuf[:]); err != nil {
		return &Cache{path: path, entries: map[string]Entry{}}
	}
	storedMtime := int64(binary.BigEndian.Uint64(headerBuf[:]))
	if storedMtime != configMtime.UnixNano() {
		return &Cache{path: path, entries: map[string]Entry{}}
	}

	entries, ok := readRecords(r)
	if !ok {
		return &Cache{path: path, entries: map[string]Entry{}}
	}
	c.entries = entries
	return c
}

func readRecords(r *bufio.Reader) (map[string]Entry, bool) {
	entries := map[string]Entry{}
	for {
		pathBytes, err := r.ReadBytes(recordSeparator)
		if err == io.EOF && len(pathBytes) == 0 {
			return entries, true
		}
		if err != nil {
			return nil, false
		}
		sourcePath := string(pathBytes[:len(pathBytes)-1])

		var payload [17]byte
		if _, err := io.ReadFull(r, payload[:]); err != nil {
			return nil, false
		}
		term, err := r.ReadByte()
		if err != nil || term != recordTerminator {
			return nil, false
		}

		entries[sourcePath] = Entry{
			SourceMtime: time.Unix(0, int64(binary.BigEndian.Uint64(payload[0:8]))),
			DestMtime:   time.Unix(0, int64(binary.BigEndian.Uint64(payload[8:16]))),
			Equivalent:  payload[16] != 0,
		}
	}
}

// Get returns the cached entry for sourcePath, if any.
func (c *Cache) Get(sourcePath string) (Entry, bool) {
	e, ok := c.entries[sourcePath]
	return e, ok
}

// Put records or replaces the entry for sourcePath.
func (c *Cache) Put(sourcePath string, e Entry) {
	c.entries[sourcePath] = e
}

// Save writes the whole cache back to disk, tagged with configMtime.
func (c *Cache) Save(configMtime time.Time) error {
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(configMtime.UnixNano()))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	for path, e := range c.entries {
		if _, err := w.WriteString(path); err != nil {
			return err
		}
		if err := w.WriteByte(recordSeparator); err != nil {
			return err
		}
		var payload [17]byte
		binary.BigEndian.PutUint64(payload[0:8], uint64(e.SourceMtime.UnixNano()))
		binary.BigEndian.PutUint64(payload[8:16], uint64(e.DestMtime.UnixNano()))
		if e.Equivalent {
			payload[16] = 1
		}
		if _, err := w.Write(payload[:]); err != nil {
			return err
		}
		if err := w.WriteByte(recordTerminator); err != nil {
			return err
		}
	}
	return w.Flush()
}

// DefaultPath returns the conventional cache location for configFile,
// `.backuptools/<config-basename>.cache` relative to dir.
func DefaultPath(dir, configBasename string) string {
	return filepath.Join(dir, ".backuptools", configBasename+".cache")
}
