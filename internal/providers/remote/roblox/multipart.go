package roblox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/crmarques/bloxsync/remote"
)

type filePart struct {
	fieldName   string
	fileName    string
	contentType string
	content     []byte
}

// encodeMultipart builds a multipart form body with fields in sorted order
// and the optional file part last.
func encodeMultipart(fields map[string]string, file *filePart) (string, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := writer.WriteField(key, fields[key]); err != nil {
			return "", nil, internalError(fmt.Sprintf("failed to encode form field %q", key), err)
		}
	}

	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(file.fieldName), escapeQuotes(file.fileName)))
		header.Set("Content-Type", file.contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return "", nil, internalError("failed to encode file part", err)
		}
		if _, err := part.Write(file.content); err != nil {
			return "", nil, internalError("failed to encode file content", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", nil, internalError("failed to finalize multipart body", err)
	}

	return writer.FormDataContentType(), body.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(value string) string {
	return quoteEscaper.Replace(value)
}

// formFields renders a payload as multipart form values. The form endpoints
// take every value as text.
func formFields(payload remote.Payload) (map[string]string, error) {
	fields := make(map[string]string, len(payload))
	for key, value := range payload {
		text, err := formValue(key, value)
		if err != nil {
			return nil, err
		}
		fields[key] = text
	}
	return fields, nil
}

func formValue(key string, value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case json.Number:
		return typed.String(), nil
	default:
		return "", internalError(fmt.Sprintf("form field %q has unsupported type %T", key, value), nil)
	}
}

// imageContentType maps an icon file extension to its MIME type, defaulting
// to png for anything unrecognized.
func imageContentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tga":
		return "image/tga"
	default:
		return "image/png"
	}
}
