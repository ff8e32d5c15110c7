// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// ManifestPath is the archive entry describing the root file.
const ManifestPath = "META-INF/container.xml"

// Rootfile names the instrument description inside a bank and the program
// it should be installed under.
type Rootfile struct {
	FullPath string `xml:"full-path,attr"`
	// Program is nil when the bank leaves the choice to the library.
	Program *int   `xml:"program,attr,omitempty"`
	Name    string `xml:"name,attr,omitempty"`
}

type container struct {
	XMLName   xml.Name   `xml:"container"`
	Rootfiles []Rootfile `xml:"rootfiles>rootfile"`
}

// Bank is an opened archive.
type Bank struct {
	zr     *zip.Reader
	closer io.Closer
	root   Rootfile
}

// Open reads the archive in ra. Without a manifest the first file entry is
// the root file.
func Open(ra io.ReaderAt, size int64) (*Bank, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	return newBank(zr, nil)
}

// OpenFile opens the archive at name. The caller must Close it.
func OpenFile(name string) (*Bank, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	b, err := newBank(&rc.Reader, rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return b, nil
}

func newBank(zr *zip.Reader, closer io.Closer) (*Bank, error) {
	b := &Bank{zr: zr, closer: closer}

	data, err := b.ReadEntry(ManifestPath)
	switch {
	case errors.Is(err, ErrMissingEntry):
		for _, f := range zr.File {
			if !f.FileInfo().IsDir() {
				b.root = Rootfile{FullPath: f.Name}
				break
			}
		}
	case err != nil:
		return nil, err
	default:
		var c container
		if err := xml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("bank: %s: %w", ManifestPath, err)
		}
		if len(c.Rootfiles) > 0 {
			b.root = c.Rootfiles[0]
		}
	}

	if b.root.FullPath == "" {
		return nil, ErrNoRootFile
	}
	f, err := b.zr.Open(b.root.FullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: root file %s", ErrMissingEntry, b.root.FullPath)
	}
	f.Close()
	return b, nil
}

// Close releases the file opened by OpenFile.
func (b *Bank) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Root returns the manifest entry of the root file.
func (b *Bank) Root() Rootfile { return b.root }

// FS exposes the archive entries.
func (b *Bank) FS() fs.FS { return b.zr }

// Entries lists the file entries in archive order.
func (b *Bank) Entries() []string {
	var out []string
	for _, f := range b.zr.File {
		if !f.FileInfo().IsDir() {
			out = append(out, f.Name)
		}
	}
	return out
}

// ReadEntry returns the contents of the named entry.
func (b *Bank) ReadEntry(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	for _, f := range b.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("bank: %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("bank: %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
}

// Entry is a file to store in a bank.
type Entry struct {
	Name string
	Data []byte
}

// Write stores entries and a manifest naming root. root.FullPath must be one
// of the entries.
func Write(w io.Writer, root Rootfile, entries []Entry) error {
	found := false
	for _, e := range entries {
		if e.Name == ManifestPath {
			return fmt.Errorf("bank: entry %s is reserved", ManifestPath)
		}
		found = found || e.Name == root.FullPath
	}
	if !found {
		return fmt.Errorf("%w: %q not among the entries", ErrNoRootFile, root.FullPath)
	}

	manifest, err := xml.MarshalIndent(container{Rootfiles: []Rootfile{root}}, "", "  ")
	if err != nil {
		return fmt.Errorf("bank: manifest: %w", err)
	}

	zw := zip.NewWriter(w)
	if err := writeEntry(zw, ManifestPath, append([]byte(xml.Header), manifest...)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeEntry(zw, e.Name, e.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("bank: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("bank: %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("bank: %s: %w", name, err)
	}
	return nil
}
