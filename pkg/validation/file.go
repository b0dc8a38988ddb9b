package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"car-rental/config"
	"car-rental/pkg/constants"
	apperrors "car-rental/pkg/errors"
)

// ValidateFile checks size and sniffed MIME type against the rules of an upload context.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, uploadCtx constants.UploadContext) error {
	rules, ok := config.UploadContexts[uploadCtx.String()]
	if !ok {
		return apperrors.NewInfraError(fmt.Errorf("unknown upload context %q", uploadCtx), nil)
	}

	if rules.MaxSizeMB > 0 && fileHeader.Size > rules.MaxSizeMB*1024*1024 {
		return apperrors.NewBadRequestError(fmt.Sprintf("file is larger than %d MB", rules.MaxSizeMB))
	}

	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return apperrors.NewBadRequestError("could not read file")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperrors.NewInfraError(err, nil)
	}

	mimeType := http.DetectContentType(buffer)
	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return apperrors.NewBadRequestError("file type not allowed: " + mimeType)
	}
	return nil
}
