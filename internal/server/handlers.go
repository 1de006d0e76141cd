package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/andresmejia3/pixelvault/pkg/envelope"
	"github.com/andresmejia3/pixelvault/pkg/imageio"
	"github.com/andresmejia3/pixelvault/pkg/keys"
	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const modeHeader = "X-Pixelvault-Mode"

type capacityResponse struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	Channels    int `json:"channels"`
	UsableBytes int `json:"usable_bytes"`
	ModeOne     int `json:"mode_one"`
	ModeTwo     int `json:"mode_two"`
}

// readFormFile returns the named upload. A missing field yields nil, nil.
func readFormFile(ctx *gin.Context, name string) ([]byte, error) {
	header, err := ctx.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func envelopeOptions(ctx *gin.Context) envelope.Options {
	compress, _ := strconv.ParseBool(ctx.Query("compress"))
	parity, _ := strconv.ParseBool(ctx.Query("parity"))
	return envelope.Options{Compress: compress, Parity: parity}
}

// readCarrier decodes the "image" upload, aborting the request on failure.
func readCarrier(ctx *gin.Context) (*stego.PixelBuffer, bool) {
	data, err := readFormFile(ctx, "image")
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errRequestBody)
		return nil, false
	}
	if data == nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidImage)
		return nil, false
	}
	buf, _, err := imageio.Decode(bytes.NewReader(data))
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidImage)
		return nil, false
	}
	return buf, true
}

// readKey parses the optional "key" upload, aborting the request on failure.
func readKey(ctx *gin.Context) (*stego.CipherContext, bool) {
	data, err := readFormFile(ctx, "key")
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errRequestBody)
		return nil, false
	}
	if data == nil {
		return nil, true
	}
	key, err := keys.Parse(data, 0)
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidKey)
		return nil, false
	}
	return key, true
}

func (s *Server) insertHandler(ctx *gin.Context) {
	format := imageio.PNG
	if name := ctx.Query("format"); name != "" {
		f, err := imageio.ParseFormat(name)
		if err != nil || !f.Lossless() {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidFormat)
			return
		}
		format = f
	}

	buf, ok := readCarrier(ctx)
	if !ok {
		return
	}
	if err := format.Check(buf.Channels); err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errUnsupportedChannels)
		return
	}
	key, ok := readKey(ctx)
	if !ok {
		return
	}

	data, err := readFormFile(ctx, "file")
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errRequestBody)
		return
	}
	if data == nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errMissingFile)
		return
	}
	if len(data) == 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errEmptyPayload)
		return
	}

	opts := envelopeOptions(ctx)
	if data, err = envelope.Wrap(data, opts); err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, errEncode)
		return
	}

	mode, err := s.encoder.Encode(buf, stego.Payload{Data: data}, key)
	switch {
	case errors.Is(err, stego.ErrCapacityExceeded):
		ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errCapacityExceeded)
		return
	case errors.Is(err, stego.ErrInvalidKey):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidKey)
		return
	case err != nil:
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, errEncode)
		return
	}

	// pre allocate with the raw pixel size, the encoded image should be similar
	out := bytes.NewBuffer(make([]byte, 0, len(buf.Pix)))
	if err := imageio.Encode(out, buf, format); err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, errEncode)
		return
	}

	log.Debug().Stringer("mode", mode).Stringer("envelope", opts).Int("payload", len(data)).Msg("Image encoding was successful")
	ctx.Header(modeHeader, mode.String())
	ctx.Data(http.StatusOK, format.ContentType(), out.Bytes())
}

func (s *Server) retrieveHandler(ctx *gin.Context) {
	buf, ok := readCarrier(ctx)
	if !ok {
		return
	}
	key, ok := readKey(ctx)
	if !ok {
		return
	}

	result, err := s.decoder.Decode(buf, key)
	switch {
	case errors.Is(err, stego.ErrCorruptedHeader):
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, errCorruptedHeader)
		return
	case errors.Is(err, stego.ErrInvalidKey):
		ctx.AbortWithStatusJSON(http.StatusBadRequest, errInvalidKey)
		return
	case err != nil:
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, errDecode)
		return
	}
	if !result.Found {
		ctx.AbortWithStatusJSON(http.StatusNotFound, errNoPayload)
		return
	}

	payload, err := envelope.Unwrap(result.Payload, envelopeOptions(ctx))
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusUnprocessableEntity, errCorruptedPayload)
		return
	}

	ctx.Header(modeHeader, result.Mode.String())
	ctx.Data(http.StatusOK, "application/octet-stream", payload)
}

func (s *Server) capacityHandler(ctx *gin.Context) {
	buf, ok := readCarrier(ctx)
	if !ok {
		return
	}
	one, two := stego.Capacity(buf)
	ctx.JSON(http.StatusOK, capacityResponse{
		Width:       buf.Width,
		Height:      buf.Height,
		Channels:    buf.Channels,
		UsableBytes: buf.UsableBytes(),
		ModeOne:     one,
		ModeTwo:     two,
	})
}
