package reader

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/pdf2md/core"
	"github.com/tsawler/pdf2md/font"
)

// Info holds the document information dictionary. Empty strings mean
// the entry is absent.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate time.Time
}

func (d *Document) readInfo() Info {
	dict, ok := d.Resolve(d.trailer.Get("Info")).(core.Dict)
	if !ok {
		return Info{}
	}
	text := func(key string) string {
		s, ok := d.Resolve(dict.Get(key)).(core.String)
		if !ok {
			return ""
		}
		return strings.TrimSpace(font.DecodeTextString([]byte(s)))
	}
	info := Info{
		Title:    text("Title"),
		Author:   text("Author"),
		Subject:  text("Subject"),
		Creator:  text("Creator"),
		Producer: text("Producer"),
	}
	if t, ok := ParseDate(text("CreationDate")); ok {
		info.CreationDate = t
	}
	return info
}

var datePattern = regexp.MustCompile(`^(?:D:)?(\d{4})(\d{2})?(\d{2})?(\d{2})?(\d{2})?(\d{2})?([Zz+\-])?(\d{2})?'?(\d{2})?'?`)

// ParseDate parses a PDF date string "D:YYYYMMDDHHmmSSOHH'mm'". Every
// field after the year is optional.
func ParseDate(s string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	num := func(i, def int) int {
		if m[i] == "" {
			return def
		}
		v, _ := strconv.Atoi(m[i])
		return v
	}
	year, month, day := num(1, 0), num(2, 1), num(3, 1)
	hour, minute, sec := num(4, 0), num(5, 0), num(6, 0)
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}

	loc := time.UTC
	switch m[7] {
	case "+", "-":
		offset := num(8, 0)*3600 + num(9, 0)*60
		if m[7] == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, loc), true
}
