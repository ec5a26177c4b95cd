// Package model mendefinisikan model domain.
package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// Mahasiswa merepresentasikan satu baris data mahasiswa pada Record Store.
// Field id ditetapkan oleh store saat insert dan tidak pernah diubah.
type Mahasiswa struct {
	ID     int64     `json:"id"`
	NAMA   string    `json:"NAMA"`
	NIM    FlexInt   `json:"NIM"`
	KELAS  string    `json:"KELAS"`
	NILAI  FlexFloat `json:"NILAI"`
	BIDANG string    `json:"BIDANG"`
	GENDER string    `json:"GENDER"`
}

// FlexInt adalah integer yang menerima angka JSON maupun string angka.
// Form browser mengirim nilai input sebagai string, sehingga koersi
// dilakukan eksplisit di lapisan wire.
type FlexInt int64

// UnmarshalJSON mengimplementasikan json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := string(unquote(b))
	if s == "" || s == "null" {
		return fmt.Errorf("nilai kosong, diharapkan angka bulat")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%q bukan angka bulat yang valid", s)
	}
	*f = FlexInt(v)
	return nil
}

// FlexFloat adalah float yang menerima angka JSON maupun string angka.
type FlexFloat float64

// UnmarshalJSON mengimplementasikan json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := string(unquote(b))
	if s == "" || s == "null" {
		return fmt.Errorf("nilai kosong, diharapkan angka")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%q bukan angka yang valid", s)
	}
	*f = FlexFloat(v)
	return nil
}

// unquote membuang tanda kutip JSON jika ada.
func unquote(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return b
}
