package fiber

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/nakeddeadlines/deadline"
)

// Uniform response envelope: {success, data?, error?}.

func ok(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func (a *Adapter) signin(c fiber.Ctx) error {
	var input deadline.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result, err := a.handler.SignIn(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusCreated, result)
}

func (a *Adapter) signout(c fiber.Ctx) error {
	token := extractToken(c)

	if err := a.handler.SignOut(c.Context(), token); err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, fiber.Map{"message": "signed out successfully"})
}

func (a *Adapter) session(c fiber.Ctx) error {
	data := sessionData(c)
	return ok(c, http.StatusOK, data)
}

func (a *Adapter) getTimer(c fiber.Ctx) error {
	status, err := a.handler.ActiveTimer(c.Context(), owner(c))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, status)
}

func (a *Adapter) createTimer(c fiber.Ctx) error {
	var input deadline.CreateTimerInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	data := sessionData(c)
	result, err := a.handler.CreateTimer(c.Context(), data.Identity, input)
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusCreated, result)
}

func (a *Adapter) deleteTimer(c fiber.Ctx) error {
	if err := a.handler.DeleteTimer(c.Context(), owner(c)); err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, nil)
}

func (a *Adapter) lookupToken(c fiber.Ctx) error {
	status, err := a.handler.LookupByToken(c.Context(), c.Params("token"))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, status)
}

func (a *Adapter) verify(c fiber.Ctx) error {
	status, err := a.handler.Verify(c.Context(), c.Params("token"))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, status)
}

// expose accepts the client-local image as a multipart upload and runs
// the exposure trigger for the session owner.
func (a *Adapter) expose(c fiber.Ctx) error {
	data := sessionData(c)

	var image *deadline.Image
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return handleError(c, err)
		}
		defer f.Close()

		bytes, err := io.ReadAll(f)
		if err != nil {
			return handleError(c, err)
		}

		image = &deadline.Image{
			Bytes:       bytes,
			ContentType: fh.Header.Get("Content-Type"),
			Name:        fh.Filename,
		}
	}

	result, err := a.handler.Expose(c.Context(), data.Session, image, c.FormValue("message"))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, result)
}

func (a *Adapter) escape(c fiber.Ctx) error {
	result, err := a.handler.Escape(c.Context(), owner(c))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, result)
}

func (a *Adapter) checkout(c fiber.Ctx) error {
	url, err := a.handler.CreateCheckout(c.Context(), owner(c))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, fiber.Map{"url": url})
}

func (a *Adapter) paymentStatus(c fiber.Ctx) error {
	status, err := a.handler.GetPaymentStatus(c.Context(), owner(c))
	if err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, status)
}

func (a *Adapter) clearPaymentStatus(c fiber.Ctx) error {
	if err := a.handler.ClearPaymentStatus(c.Context(), owner(c)); err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, nil)
}

// paymentSuccess and paymentCancel are the checkout redirect landings;
// the owner comes back from the hosted payment page with their handle
// in the query string.
func (a *Adapter) paymentSuccess(c fiber.Ctx) error {
	if err := a.handler.ConfirmPayment(c.Context(), c.Query("username")); err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, fiber.Map{"message": "payment recorded"})
}

func (a *Adapter) paymentCancel(c fiber.Ctx) error {
	if err := a.handler.CancelPayment(c.Context(), c.Query("username")); err != nil {
		return handleError(c, err)
	}

	return ok(c, http.StatusOK, fiber.Map{"message": "payment attempt recorded"})
}

func owner(c fiber.Ctx) string {
	return sessionData(c).Identity.Handle
}

func sessionData(c fiber.Ctx) *deadline.SessionData {
	data, _ := c.Locals("sessionData").(*deadline.SessionData)
	return data
}
