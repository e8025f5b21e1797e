package handler

import (
	"errors"

	"gstreport/internal/domain"
)

// bindMessage surfaces amount and rate errors from JSON decoding and falls back to generic.
func bindMessage(err error, generic string) string {
	if errors.Is(err, domain.ErrInvalidAmount) {
		return err.Error()
	}
	return generic
}
