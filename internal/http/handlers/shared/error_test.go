package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minishop-next/internal/http/response"
	"github.com/minishop-next/internal/i18n"
	"github.com/minishop-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondForTest(t *testing.T, err error) response.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/seller/products/import", nil)

	RespondServiceError(c, err, "error.internal")

	var resp response.Response
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("decode response failed: %v", decodeErr)
	}
	return resp
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		key  string
	}{
		{
			name: "import row wraps product error",
			err:  fmt.Errorf("%w: row %d: %w", service.ErrImportFileInvalid, 3, service.ErrProductInvalid),
			code: response.CodeBadRequest,
			key:  "error.import_file_invalid",
		},
		{name: "product invalid", err: service.ErrProductInvalid, code: response.CodeBadRequest, key: "error.product_invalid"},
		{name: "quantity limit", err: service.ErrCartQuantityLimit, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
		{name: "empty cart", err: service.ErrEmptyCart, code: response.CodeEmptyCart, key: "error.cart_empty"},
		{name: "checkout conflict", err: service.ErrCheckoutConflict, code: response.CodeConflict, key: "error.checkout_conflict"},
		{name: "order not found", err: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		{name: "unknown", err: errors.New("boom"), code: response.CodeInternal, key: "error.internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := respondForTest(t, tc.err)
			if resp.StatusCode != tc.code {
				t.Fatalf("want code %d got %d", tc.code, resp.StatusCode)
			}
			if want := i18n.T(i18n.DefaultLocale, tc.key); resp.Msg != want {
				t.Fatalf("want msg %q got %q", want, resp.Msg)
			}
		})
	}
}
