package model

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_UnmarshalJSON_Number(t *testing.T) {
	var f FlexInt
	if err := json.Unmarshal([]byte(`12345`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 12345 {
		t.Errorf("FlexInt = %d, want 12345", f)
	}
}

func TestFlexInt_UnmarshalJSON_NumericString(t *testing.T) {
	var f FlexInt
	if err := json.Unmarshal([]byte(`"12345"`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 12345 {
		t.Errorf("FlexInt = %d, want 12345", f)
	}
}

func TestFlexInt_UnmarshalJSON_Invalid(t *testing.T) {
	cases := []string{`"abc"`, `""`, `null`, `"12.5"`}
	for _, c := range cases {
		var f FlexInt
		if err := json.Unmarshal([]byte(c), &f); err == nil {
			t.Errorf("input %s: expected error, got none", c)
		}
	}
}

func TestFlexFloat_UnmarshalJSON_Number(t *testing.T) {
	var f FlexFloat
	if err := json.Unmarshal([]byte(`88.5`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 88.5 {
		t.Errorf("FlexFloat = %v, want 88.5", f)
	}
}

func TestFlexFloat_UnmarshalJSON_NumericString(t *testing.T) {
	var f FlexFloat
	if err := json.Unmarshal([]byte(`"88.5"`), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f != 88.5 {
		t.Errorf("FlexFloat = %v, want 88.5", f)
	}
}

func TestFlexFloat_UnmarshalJSON_Invalid(t *testing.T) {
	cases := []string{`"abc"`, `""`, `null`}
	for _, c := range cases {
		var f FlexFloat
		if err := json.Unmarshal([]byte(c), &f); err == nil {
			t.Errorf("input %s: expected error, got none", c)
		}
	}
}

func TestMahasiswa_UnmarshalJSON_BrowserPayload(t *testing.T) {
	// Payload persis seperti yang dikirim form dashboard: NIM sebagai string.
	raw := `{"NAMA":"Budi","NIM":"12345","KELAS":"3A","NILAI":88.5,"BIDANG":"TI","GENDER":"L"}`

	var m Mahasiswa
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.NAMA != "Budi" {
		t.Errorf("NAMA = %q, want %q", m.NAMA, "Budi")
	}
	if m.NIM != 12345 {
		t.Errorf("NIM = %d, want 12345", m.NIM)
	}
	if m.NILAI != 88.5 {
		t.Errorf("NILAI = %v, want 88.5", m.NILAI)
	}
}

func TestAPIError_Error_ContainsCodeAndMessage(t *testing.T) {
	err := NewStoreError("duplicate key")
	got := err.Error()
	want := "[STORE_ERROR] duplicate key"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
