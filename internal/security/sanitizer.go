// Package security menyediakan fungsi keamanan aplikasi.
//
// FieldSanitizer membersihkan field teks data mahasiswa sebelum diteruskan
// ke Record Store. Dashboard merender field tersebut ke dalam tabel HTML,
// sehingga seluruh markup dibuang dengan kebijakan ketat bluemonday.
package security

import "github.com/microcosm-cc/bluemonday"

// FieldSanitizerService mendefinisikan interface sanitasi field teks.
type FieldSanitizerService interface {
	// Sanitize membuang seluruh tag HTML dari input dan mengembalikan
	// teks polos. Input kosong menghasilkan string kosong. Idempoten:
	// input yang sama selalu menghasilkan output yang sama.
	Sanitize(raw string) string
}

// fieldSanitizer adalah implementasi FieldSanitizerService.
// Kebijakan bluemonday bersifat thread-safe dan dipakai bersama.
type fieldSanitizer struct {
	policy *bluemonday.Policy
}

// NewFieldSanitizer membuat FieldSanitizerService baru dengan kebijakan
// ketat: tidak ada tag maupun atribut yang diloloskan.
func NewFieldSanitizer() *fieldSanitizer {
	return &fieldSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize membuang seluruh tag HTML dari input.
func (s *fieldSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
