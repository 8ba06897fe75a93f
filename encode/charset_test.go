package encode_test

import (
	"testing"

	"github.com/powerman/check"

	"github.com/powerman/loglayout/encode"
)

func TestLookupCharset(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "UTF-8", false},
		{"utf-8", "UTF-8", false},
		{"ISO-8859-1", "ISO-8859-1", false},
		{"windows-1251", "windows-1251", false},
		{"no-such-charset", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			t := check.T(tt)
			cs, err := encode.LookupCharset(tc.name)
			if tc.wantErr {
				t.NotNil(err)
				return
			}
			t.Nil(err)
			t.Equal(cs.Name(), tc.want)
		})
	}
}

func TestCharset_Bytes(tt *testing.T) {
	t := check.T(tt)
	t.Parallel()

	t.Equal(string(encode.UTF8.Bytes([]byte("ok"))), "ok")
	t.Equal(string(encode.UTF8.Bytes([]byte("a\xffb"))), "a�b")
	t.Equal(string(encode.ISO88591.Bytes([]byte("é✓"))), "\xe9\x1a")
	t.Equal(string(encode.UTF16BE.Bytes([]byte("A"))), "\x00A")
	t.Equal(string(encode.UTF16LE.Bytes([]byte("A"))), "A\x00")
}
