package httpserver

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

const multipartMemory = 32 << 20

func (h *handlers) checkout(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxCheckoutBytes)
	form, err := parseCheckoutForm(c.Request)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody("too_large", "upload too large"))
			return
		}
		badRequest(c, "malformed form body")
		return
	}
	defer form.RemoveAll()

	in, err := h.checkoutInput(form)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.fail(c, err)
			return
		}
		badRequest(c, err.Error())
		return
	}

	orderID, err := h.deps.CheckoutSvc.PlaceOrder(c.Request.Context(), viewerFrom(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID, "redirect": "/orders/" + orderID})
}

// parseCheckoutForm reads a multipart body. Other bodies are accepted as plain form
// fields without photos so the cart checks still run on them.
func parseCheckoutForm(r *http.Request) (*multipart.Form, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &multipart.Form{Value: r.PostForm, File: map[string][]*multipart.FileHeader{}}, nil
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	return r.MultipartForm, nil
}

// checkoutInput splits the multipart form into contact fields and per-product customizations.
// Customizations arrive as customerName[<productId>] and photo[<productId>] (repeatable).
func (h *handlers) checkoutInput(form *multipart.Form) (checkoutsvc.PlaceOrderInput, error) {
	in := checkoutsvc.PlaceOrderInput{Items: make(map[string]checkoutsvc.ItemInput)}

	plain := make(map[string][]string, len(form.Value))
	for key, values := range form.Value {
		if id, ok := indexedKey(key, "customerName"); ok {
			item := in.Items[id]
			if len(values) > 0 {
				item.CustomerName = values[0]
			}
			in.Items[id] = item
			continue
		}
		plain[key] = values
	}
	if err := h.decoder.Decode(&in.Form, plain); err != nil {
		return in, errors.New("invalid form fields")
	}

	for key, files := range form.File {
		id, ok := indexedKey(key, "photo")
		if !ok {
			continue
		}
		item := in.Items[id]
		for _, fh := range files {
			data, err := h.readPhoto(fh)
			if err != nil {
				return in, domain.NewValidationError(key, err.Error())
			}
			item.Photos = append(item.Photos, data)
		}
		in.Items[id] = item
	}
	return in, nil
}

func (h *handlers) readPhoto(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.opts.MaxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", h.opts.MaxPhotoBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.opts.MaxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.opts.MaxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %d bytes", h.opts.MaxPhotoBytes)
	}
	return data, nil
}

// indexedKey extracts id from keys shaped like name[id].
func indexedKey(key, name string) (string, bool) {
	rest, ok := strings.CutPrefix(key, name+"[")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "]")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
