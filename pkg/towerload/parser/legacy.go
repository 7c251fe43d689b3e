package parser

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/richardlehane/mscfb"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/xuri/excelize/v2"
)

// oleSignature is the magic number of OLE2 compound files.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// OpenWorkbook opens an OOXML workbook. Legacy BIFF workbooks and encrypted
// packages, both stored as OLE compound files, are rejected with a
// DataFormatError that says so instead of a zip error.
func OpenWorkbook(path string) (*excelize.File, error) {
	if err := checkContainer(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &errs.DataFormatError{File: path, Msg: "cannot open workbook", Err: err}
	}
	return f, nil
}

func checkContainer(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return &errs.DataFormatError{File: path, Msg: "cannot read workbook", Err: err}
	}
	defer fh.Close()

	sig := make([]byte, len(oleSignature))
	if _, err := io.ReadFull(fh, sig); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &errs.DataFormatError{File: path, Msg: "file is too short to be a workbook"}
		}
		return &errs.DataFormatError{File: path, Msg: "cannot read workbook", Err: err}
	}
	if !bytes.Equal(sig, oleSignature) {
		return nil
	}

	doc, err := mscfb.New(fh)
	if err != nil {
		return &errs.DataFormatError{File: path, Msg: "unreadable OLE compound file", Err: err}
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptedPackage":
			return &errs.DataFormatError{File: path, Msg: "workbook is password protected"}
		case "Workbook", "Book":
			return &errs.DataFormatError{File: path, Msg: "legacy BIFF .xls workbook, re-save it as .xlsx"}
		}
	}
	return &errs.DataFormatError{File: path, Msg: "OLE compound file contains no workbook"}
}
