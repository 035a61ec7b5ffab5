package qti

import (
	"archive/zip"
	"bytes"
)

// BuildPackage wraps a serialized document in a ZIP archive under the entry
// name quiz.xml, the layout Canvas accepts for upload.
func BuildPackage(doc []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	w, err := zw.Create("quiz.xml")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(doc); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
