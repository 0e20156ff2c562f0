// Package encoder repairs text that was not written as UTF-8, such as lines
// of legacy .m3u playlists saved in a locale code page.
package encoder

import (
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// UTF8 is the charset name reported for input that needs no conversion.
const UTF8 = "UTF-8"

// DetectEncoding detects the character encoding of the given bytes
func DetectEncoding(data []byte) (string, error) {
	if len(data) == 0 || utf8.Valid(data) {
		return UTF8, nil
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("failed to detect encoding: %w", err)
	}

	return result.Charset, nil
}

// ConvertToUTF8 converts bytes from charset to UTF-8. Charsets without a
// known decoder are read as Windows-1252, which maps every byte.
func ConvertToUTF8(data []byte, charset string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	if charset == UTF8 || charset == "" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8 input")
		}
		return string(data), nil
	}

	decoder := getDecoder(charset)
	if decoder == nil {
		decoder = charmap.Windows1252.NewDecoder()
	}

	decoded, err := decoder.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode from %s: %w", charset, err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("decoding from %s produced invalid UTF-8", charset)
	}

	return string(decoded), nil
}

// ToUTF8 detects the charset of data and converts it to UTF-8. Valid UTF-8
// input is returned as is.
func ToUTF8(data []byte) (text string, charset string, err error) {
	charset, err = DetectEncoding(data)
	if err != nil || (charset == UTF8 && !utf8.Valid(data)) {
		// chardet gives up on some short inputs; a single-byte code page
		// is the common case for playlists.
		charset = "windows-1252"
	}

	text, err = ConvertToUTF8(data, charset)
	if err != nil {
		return "", charset, err
	}
	return text, charset, nil
}

// getDecoder returns the appropriate decoder for the given charset
func getDecoder(charset string) *encoding.Decoder {
	switch charset {
	case "GB2312", "GB-2312", "GBK", "GB18030", "GB-18030":
		return simplifiedchinese.GBK.NewDecoder()
	case "Big5", "BIG5":
		return traditionalchinese.Big5.NewDecoder()
	case "Shift_JIS":
		return japanese.ShiftJIS.NewDecoder()
	case "EUC-JP":
		return japanese.EUCJP.NewDecoder()
	case "ISO-2022-JP":
		return japanese.ISO2022JP.NewDecoder()
	case "EUC-KR":
		return korean.EUCKR.NewDecoder()
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case "ISO-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	case "ISO-8859-2":
		return charmap.ISO8859_2.NewDecoder()
	case "ISO-8859-5":
		return charmap.ISO8859_5.NewDecoder()
	case "ISO-8859-6":
		return charmap.ISO8859_6.NewDecoder()
	case "ISO-8859-7":
		return charmap.ISO8859_7.NewDecoder()
	case "ISO-8859-8", "ISO-8859-8-I":
		return charmap.ISO8859_8.NewDecoder()
	case "ISO-8859-9":
		return charmap.ISO8859_9.NewDecoder()
	case "windows-1251":
		return charmap.Windows1251.NewDecoder()
	case "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "windows-1256":
		return charmap.Windows1256.NewDecoder()
	case "KOI8-R":
		return charmap.KOI8R.NewDecoder()
	default:
		return nil
	}
}
