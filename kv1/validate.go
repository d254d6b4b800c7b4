package kv1

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// cursor walks the cells of one KV1 row, applying the field validators in
// order. It mirrors kv1_parser.cpp's eat*/require* pairing: eatCell always
// advances the position (so a row's expected cell count is fully consumed
// even after an error), while the require* validation is skipped once a
// record error has already been raised for this row.
type cursor struct {
	cells        []string
	pos          int
	recordErrors []string
	globalErrors *[]string
}

func newCursor(cells []string, globalErrors *[]string) *cursor {
	return &cursor{cells: cells, globalErrors: globalErrors}
}

func (c *cursor) hasErrors() bool { return len(c.recordErrors) > 0 }

func (c *cursor) remaining() int { return len(c.cells) - c.pos }

func (c *cursor) eatCell() (string, bool) {
	if c.pos >= len(c.cells) {
		c.recordErrors = append(c.recordErrors, "unexpected end of row")
		return "", false
	}
	v := c.cells[c.pos]
	c.pos++
	return v, true
}

func (c *cursor) eatDeprecated() {
	c.eatCell()
}

func (c *cursor) eatString(field string, mandatory bool, maxLen int) string {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return cell
	}
	return c.requireString(field, cell, mandatory, maxLen)
}

func (c *cursor) requireString(field, cell string, mandatory bool, maxLen int) string {
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return cell
	}
	if !utf8.ValidString(cell) {
		*c.globalErrors = append(*c.globalErrors, field+": invalid UTF-8 encoding")
		return cell
	}
	if maxLen > 0 && utf8.RuneCountInString(cell) > maxLen {
		c.recordErrors = append(c.recordErrors, fmt.Sprintf("%s exceeds maximum length of %d code points", field, maxLen))
	}
	return cell
}

func (c *cursor) eatBoolean(field string, mandatory bool) bool {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return false
	}
	return c.requireBoolean(field, cell, mandatory)
}

func (c *cursor) requireBoolean(field, cell string, mandatory bool) bool {
	switch cell {
	case "1", "true":
		return true
	case "0", "false":
		return false
	case "":
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return false
	default:
		c.recordErrors = append(c.recordErrors, field+" is not a valid boolean (expected 1, 0, true or false)")
		return false
	}
}

func (c *cursor) eatNumber(field string, mandatory bool, maxIntegralDigits int) float64 {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return 0
	}
	return c.requireNumber(field, cell, mandatory, maxIntegralDigits)
}

func (c *cursor) requireNumber(field, cell string, mandatory bool, maxIntegralDigits int) float64 {
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+" is not a valid number")
		return 0
	}
	if maxIntegralDigits > 0 {
		integral := strings.TrimPrefix(cell, "-")
		if dot := strings.IndexByte(integral, '.'); dot >= 0 {
			integral = integral[:dot]
		}
		if len(integral) > maxIntegralDigits {
			c.recordErrors = append(c.recordErrors, fmt.Sprintf("%s exceeds maximum of %d integral digits", field, maxIntegralDigits))
		}
	}
	return v
}

// eatInt parses a mandatory-or-optional integer-valued field, requiring a
// zero fractional part (§4.2 "Integrality"). An optional [min,max) range may
// be supplied; pass min==max==0 to skip range enforcement (used for fields
// like line_ve_tag_number that the parser deliberately does not range-check).
func (c *cursor) eatInt(field string, mandatory bool, maxDigits int, min, max int) int {
	v := c.eatNumber(field, mandatory, maxDigits)
	if c.hasErrors() {
		return 0
	}
	if v != math.Trunc(v) {
		c.recordErrors = append(c.recordErrors, field+" must be an integer")
		return 0
	}
	iv := int(v)
	if min != 0 || max != 0 {
		if iv < min || iv >= max {
			c.recordErrors = append(c.recordErrors, fmt.Sprintf("%s out of range [%d, %d)", field, min, max))
		}
	}
	return iv
}

func (c *cursor) eatOptionalInt(field string, maxDigits int) *int {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() || cell == "" {
		return nil
	}
	v := c.requireNumber(field, cell, false, maxDigits)
	if c.hasErrors() {
		return nil
	}
	if v != math.Trunc(v) {
		c.recordErrors = append(c.recordErrors, field+" must be an integer")
		return nil
	}
	iv := int(v)
	return &iv
}

func (c *cursor) eatOptionalNumber(field string, maxIntegralDigits int) *float64 {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() || cell == "" {
		return nil
	}
	v := c.requireNumber(field, cell, false, maxIntegralDigits)
	if c.hasErrors() {
		return nil
	}
	return &v
}

func isHexUpper(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'F')
}

func (c *cursor) eatRgbColor(field string, mandatory bool) *RgbColor {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return nil
	}
	return c.requireRgbColor(field, cell, mandatory)
}

func (c *cursor) requireRgbColor(field, cell string, mandatory bool) *RgbColor {
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return nil
	}
	if len(cell) != 6 {
		c.recordErrors = append(c.recordErrors, field+" must be exactly 6 hex digits")
		return nil
	}
	for i := 0; i < 6; i++ {
		if !isHexUpper(cell[i]) {
			c.recordErrors = append(c.recordErrors, field+" contains a non-hex or lowercase-hex character")
			return nil
		}
	}
	r, _ := strconv.ParseUint(cell[0:2], 16, 8)
	g, _ := strconv.ParseUint(cell[2:4], 16, 8)
	b, _ := strconv.ParseUint(cell[4:6], 16, 8)
	return &RgbColor{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// eatRdCoord validates a Dutch RD coordinate: a fixed-point number with at
// least minIntegralDigits integral digits and an overall length no greater
// than 15 characters. LocationX_EW callers pass minIntegralDigits=4 (not
// the usual 6) to admit Benelux-edge easting values.
func (c *cursor) eatRdCoord(field string, mandatory bool, minIntegralDigits int) float64 {
	cell, ok := c.eatCell()
	if !ok || c.hasErrors() {
		return 0
	}
	return c.requireRdCoord(field, cell, mandatory, minIntegralDigits)
}

func (c *cursor) requireRdCoord(field, cell string, mandatory bool, minIntegralDigits int) float64 {
	if cell == "" {
		if mandatory {
			c.recordErrors = append(c.recordErrors, field+" is mandatory")
		}
		return 0
	}
	if len(cell) > 15 {
		c.recordErrors = append(c.recordErrors, field+" exceeds maximum length of 15 characters")
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		c.recordErrors = append(c.recordErrors, field+" is not a valid coordinate")
		return 0
	}
	integral := strings.TrimPrefix(cell, "-")
	if dot := strings.IndexByte(integral, '.'); dot >= 0 {
		integral = integral[:dot]
	}
	if len(integral) < minIntegralDigits {
		c.recordErrors = append(c.recordErrors, fmt.Sprintf("%s has fewer than %d integral digits", field, minIntegralDigits))
	}
	return v
}
