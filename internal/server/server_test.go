package server

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func init() {
	gin.SetMode(gin.TestMode)
	log.Logger = log.Output(io.Discard)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := New(stego.Config{Workers: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s.Handler()
}

func carrierPNG(t *testing.T, width, height, channels int) []byte {
	t.Helper()
	buf := stego.NewPixelBuffer(width, height, channels)
	rand.Read(buf.Pix)
	if channels == 4 {
		buf.Pix[3] = 0
	}
	var out bytes.Buffer
	if err := imageio.Encode(&out, buf, imageio.PNG); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return out.Bytes()
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	rand.Read(b)
	return b
}

func post(t *testing.T, h http.Handler, target string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, data := range files {
		part, err := w.CreateFormFile(field, field+".bin")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		part.Write(data)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apiError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %q", rec.Body.String())
	}
	return body.Code
}

func TestInsertRetrieve(t *testing.T) {
	h := newTestServer(t)
	key := randomBytes(t, 16+32)

	cases := []struct {
		name   string
		query  string
		format string
		key    []byte
	}{
		{name: "plain", query: "", format: "image/png"},
		{name: "keyed", query: "", format: "image/png", key: key},
		{name: "bmp", query: "format=bmp", format: "image/bmp"},
		{name: "envelope", query: "compress=true&parity=true", format: "image/png", key: key},
	}

	for _, tc := range cases {
		payload := bytes.Repeat([]byte(tc.name), 40)
		files := map[string][]byte{"image": carrierPNG(t, 60, 40, 3), "file": payload}
		if tc.key != nil {
			files["key"] = tc.key
		}

		rec := post(t, h, "/api/v1/insert?"+tc.query, files)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: insert status %d: %s", tc.name, rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != tc.format {
			t.Errorf("%s: Content-Type = %q, want %q", tc.name, got, tc.format)
		}
		if rec.Header().Get(modeHeader) == "" {
			t.Errorf("%s: missing %s header", tc.name, modeHeader)
		}

		retrieve := map[string][]byte{"image": rec.Body.Bytes()}
		if tc.key != nil {
			retrieve["key"] = tc.key
		}
		rec = post(t, h, "/api/v1/retrieve?"+tc.query, retrieve)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: retrieve status %d: %s", tc.name, rec.Code, rec.Body.String())
		}
		if !bytes.Equal(rec.Body.Bytes(), payload) {
			t.Errorf("%s: retrieved payload mismatch", tc.name)
		}
	}
}

func TestInsertErrors(t *testing.T) {
	h := newTestServer(t)
	img := carrierPNG(t, 10, 10, 3)

	tests := []struct {
		name   string
		query  string
		files  map[string][]byte
		status int
		code   string
	}{
		{"no image", "", map[string][]byte{"file": {1}}, http.StatusBadRequest, "invalid_image"},
		{"bad image", "", map[string][]byte{"image": []byte("nope"), "file": {1}}, http.StatusBadRequest, "invalid_image"},
		{"no file", "", map[string][]byte{"image": img}, http.StatusBadRequest, "missing_file"},
		{"empty file", "", map[string][]byte{"image": img, "file": {}}, http.StatusBadRequest, "empty_payload"},
		{"bad key", "", map[string][]byte{"image": img, "file": {1}, "key": {1, 2, 3}}, http.StatusBadRequest, "invalid_key"},
		{"jpeg output", "format=jpg", map[string][]byte{"image": img, "file": {1}}, http.StatusBadRequest, "invalid_format"},
		{"too big", "", map[string][]byte{"image": img, "file": make([]byte, 100)}, http.StatusRequestEntityTooLarge, "capacity_exceeded"},
		{"bmp with alpha", "format=bmp", map[string][]byte{"image": carrierPNG(t, 10, 10, 4), "file": {1}}, http.StatusBadRequest, "unsupported_channels"},
	}

	for _, tc := range tests {
		rec := post(t, h, "/api/v1/insert?"+tc.query, tc.files)
		if rec.Code != tc.status {
			t.Errorf("%s: status %d, want %d", tc.name, rec.Code, tc.status)
			continue
		}
		if code := errorCode(t, rec); code != tc.code {
			t.Errorf("%s: code %q, want %q", tc.name, code, tc.code)
		}
	}
}

func TestRetrieveNoPayload(t *testing.T) {
	h := newTestServer(t)
	rec := post(t, h, "/api/v1/retrieve", map[string][]byte{"image": carrierPNG(t, 30, 30, 4)})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
	if code := errorCode(t, rec); code != "no_payload" {
		t.Errorf("code %q, want no_payload", code)
	}
}

func TestRetrieveCorruptedHeader(t *testing.T) {
	h := newTestServer(t)

	// 30x30 grey image whose header claims far more data than fits.
	buf := stego.NewPixelBuffer(30, 30, 1)
	header := append([]byte(stego.DefaultMarker), 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0)
	pos := 1
	for _, b := range header {
		for shift := 0; shift < 8; shift++ {
			buf.Pix[pos] = buf.Pix[pos]&^1 | (b>>shift)&1
			pos++
		}
	}
	var img bytes.Buffer
	if err := imageio.Encode(&img, buf, imageio.PNG); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	rec := post(t, h, "/api/v1/retrieve", map[string][]byte{"image": img.Bytes()})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	if code := errorCode(t, rec); code != "corrupted_header" {
		t.Errorf("code %q, want corrupted_header", code)
	}
}

func TestCapacity(t *testing.T) {
	h := newTestServer(t)
	rec := post(t, h, "/api/v1/capacity", map[string][]byte{"image": carrierPNG(t, 100, 100, 4)})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var got capacityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := capacityResponse{
		Width:       100,
		Height:      100,
		Channels:    4,
		UsableBytes: 29999,
		ModeOne:     29999/8 - 16,
		ModeTwo:     29999*2/8 - 16,
	}
	if got != want {
		t.Errorf("capacity = %+v, want %+v", got, want)
	}
}
