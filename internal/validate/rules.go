package validate

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"strings"
)

// Rule checks one constraint on a field. A failing Rule with stop set ends
// the checks for that field.
type Rule struct {
	check func(field string, in Input) []string
	stop  bool
}

// attribute turns a field name into the words used in messages.
func attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

var Required = Rule{
	stop: true,
	check: func(field string, in Input) []string {
		if in.present(field) {
			return nil
		}
		return []string{fmt.Sprintf("The %s field is required.", attribute(field))}
	},
}

var Integer = Rule{
	check: func(field string, in Input) []string {
		v, ok := in.value(field)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			return []string{fmt.Sprintf("The %s must be an integer.", attribute(field))}
		}
		return nil
	},
}

// Image accepts an uploaded file whose contents decode as one of formats.
// "jpg" and "jpeg" are interchangeable.
func Image(formats ...string) Rule {
	allowed := map[string]bool{}
	for _, f := range formats {
		allowed[f] = true
		if f == "jpg" {
			allowed["jpeg"] = true
		}
	}
	return Rule{check: func(field string, in Input) []string {
		data, isFile := in.file(field)
		if !in.present(field) {
			return nil
		}
		var msgs []string
		notImage := fmt.Sprintf("The %s must be an image.", attribute(field))
		wrongType := fmt.Sprintf("The %s must be a file of type: %s.", attribute(field), strings.Join(formats, ", "))
		if !isFile {
			return append(msgs, notImage, wrongType)
		}
		format, err := DetectImage(data)
		if err != nil {
			if !strings.HasPrefix(http.DetectContentType(data), "image/") {
				msgs = append(msgs, notImage)
			}
			return append(msgs, wrongType)
		}
		if !allowed[format] {
			return append(msgs, wrongType)
		}
		return nil
	}}
}

// DetectImage reports the format of an encoded png or jpeg image.
func DetectImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return format, nil
}

// Extension is the file extension stored keys use for format.
func Extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
