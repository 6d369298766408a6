package quote

import "regexp"

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileName builds "<number>-<client>-Presupuesto.pdf" from the quote number
// and client name, keeping only ASCII letters, digits, '_' and '-'.
func FileName(number, client string) string {
	n := unsafeName.ReplaceAllString(number, "")
	if n == "" {
		n = "presupuesto"
	}
	c := unsafeName.ReplaceAllString(client, "")
	if c == "" {
		c = "cliente"
	}
	return n + "-" + c + "-Presupuesto.pdf"
}
