package paprika

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/klauspost/compress/gzip"

	"github.com/starford/paprika/internal/checksum"
)

// UploadField is the multipart field (and file name) carrying the recipe.
const UploadField = "data"

// Upload is an encoded recipe ready to POST.
type Upload struct {
	ContentType string
	Body        []byte
}

// EncodeUpload builds the request body the service expects for a recipe
// write: the record's JSON, wrapped in a gzip container at the
// no-compression level, sent as the single file part "data" of a
// multipart form. r is encoded as is; call Stamp first.
func EncodeUpload(r *Recipe) (*Upload, error) {
	data, err := checksum.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("paprika: encode recipe: %w", err)
	}

	var gz bytes.Buffer
	zw, err := gzip.NewWriterLevel(&gz, gzip.NoCompression)
	if err != nil {
		return nil, fmt.Errorf("paprika: gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("paprika: gzip recipe: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("paprika: gzip recipe: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(UploadField, UploadField)
	if err != nil {
		return nil, fmt.Errorf("paprika: multipart part: %w", err)
	}
	if _, err := part.Write(gz.Bytes()); err != nil {
		return nil, fmt.Errorf("paprika: multipart part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("paprika: multipart close: %w", err)
	}

	return &Upload{ContentType: mw.FormDataContentType(), Body: body.Bytes()}, nil
}

// UploadRecipe creates r (empty uid) or updates it (existing uid). r is
// stamped in place first, so after the call it carries its uid and hash.
//
// ErrRejected means the service answered false. Any error after the
// request was sent leaves the remote state unknown.
func (c *Client) UploadRecipe(ctx context.Context, token string, r *Recipe) error {
	r.Stamp()

	up, err := EncodeUpload(r)
	if err != nil {
		return err
	}

	endpoint := RecipeEndpoint(r.UID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(endpoint), bytes.NewReader(up.Body))
	if err != nil {
		return fmt.Errorf("paprika: build request: %w", err)
	}
	req.Header.Set("Content-Type", up.ContentType)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "utf-8")

	text, err := c.do(req, token)
	if err != nil {
		return err
	}
	res, err := decodeResult(text, KindBool)
	if err != nil {
		return err
	}
	if err := expect(res, endpoint, KindBool); err != nil {
		return err
	}
	if !res.Bool {
		return ErrRejected
	}

	c.logger.Debug("paprika: recipe uploaded", slog.String("uid", r.UID), slog.String("hash", r.Hash))
	return nil
}
