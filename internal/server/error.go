package server

// apiError is the body of every failed request.
type apiError struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

var (
	errInvalidImage        = apiError{Code: "invalid_image", Error: "Invalid image supplied in request"}
	errMissingFile         = apiError{Code: "missing_file", Error: "No file to hide was supplied"}
	errEmptyPayload        = apiError{Code: "empty_payload", Error: "The file to hide is empty"}
	errInvalidKey          = apiError{Code: "invalid_key", Error: "Invalid key file supplied in request"}
	errInvalidFormat       = apiError{Code: "invalid_format", Error: "Output format must be png or bmp"}
	errUnsupportedChannels = apiError{Code: "unsupported_channels", Error: "The output format cannot keep the image's transparency"}
	errCapacityExceeded    = apiError{Code: "capacity_exceeded", Error: "The file does not fit in the supplied image"}
	errNoPayload           = apiError{Code: "no_payload", Error: "No payload found in the supplied image"}
	errCorruptedHeader     = apiError{Code: "corrupted_header", Error: "The payload header is corrupted"}
	errCorruptedPayload    = apiError{Code: "corrupted_payload", Error: "The payload envelope could not be opened"}
	errRequestBody         = apiError{Error: "Error reading request body"}
	errEncode              = apiError{Code: "encode_error", Error: "An error occurred while encoding the image"}
	errDecode              = apiError{Code: "decode_error", Error: "An error occurred while decoding the image"}
)
