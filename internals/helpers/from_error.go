// file: internals/helpers/from_error.go
package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"galangdana_backend/internals/store"
)

// FromError memetakan error layer service ke response JSON konsisten.
//   - *fiber.Error        → code & message apa adanya (sudah aman diekspos)
//   - store.ErrNotFound   → 404
//   - store.ErrConflict   → 409, caller diminta re-read lalu retry
//   - store.ErrValidation → 400
//   - store.ErrInternal / lainnya → 500, detail DISEMBUNYIKAN dari caller,
//     dicatat penuh di log + notifikasi operator
func FromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return Error(c, fiber.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, store.ErrConflict):
		return Error(c, fiber.StatusConflict, "Data berubah sejak dibaca. Muat ulang lalu coba lagi.")
	case errors.Is(err, store.ErrValidation):
		return Error(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		Notify("internal error pada " + c.Method() + " " + c.Path())
		return Error(c, fiber.StatusInternalServerError, "Terjadi kesalahan internal")
	}
}
