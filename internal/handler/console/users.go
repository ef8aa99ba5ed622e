package console

import (
	"net/http"

	"admin-console/internal/api"
	"admin-console/internal/form"
	"admin-console/internal/notify"
	"admin-console/internal/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type usersPage struct {
	Users     []api.User
	ListError string
	Toasts    []notify.Toast
	Dialog    *dialogView
}

type dialogView struct {
	Fields     []form.Field
	Submitting bool
	Toasts     []notify.Toast
}

func newDialogView(d *form.Dialog) *dialogView {
	return &dialogView{Fields: d.Fields(), Submitting: d.IsSubmitting()}
}

func findField(d *form.Dialog, name form.FieldName) form.Field {
	for _, f := range d.Fields() {
		if f.Name == name {
			return f
		}
	}
	return form.Field{}
}

// UsersPage GET /admin/users
func (h *Handler) UsersPage(c echo.Context) error {
	s := h.session(c)
	ctx := c.Request().Context()

	page := usersPage{}
	users, err := h.users.List(ctx)
	if err != nil {
		h.log.Error("list users", zap.Error(err))
		page.ListError = api.Detail(err)
	}
	page.Users = users
	page.Toasts = h.drainToasts(ctx, s.ID)
	if s.Dialog.IsOpen() {
		page.Dialog = newDialogView(s.Dialog)
	}
	return c.Render(http.StatusOK, "users.html", page)
}

// OpenDialog GET /admin/users/new
func (h *Handler) OpenDialog(c echo.Context) error {
	s := h.session(c)
	s.Dialog.Open()
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, UsersPath)
	}
	return c.Render(http.StatusOK, "dialog", newDialogView(s.Dialog))
}

// BlurField POST /admin/users/new/fields/:field
// 更新單一欄位並只驗證該欄位
func (h *Handler) BlurField(c echo.Context) error {
	spec, err := fieldParam(c)
	if err != nil {
		return err
	}
	if spec.Checkbox() {
		return echo.NewHTTPError(http.StatusBadRequest, "checkbox fields are toggled, not typed")
	}
	d := h.session(c).Dialog
	if err := d.Set(spec.Name, c.FormValue(string(spec.Name))); err != nil {
		return dialogError(err)
	}
	if _, err := d.Blur(spec.Name); err != nil {
		return dialogError(err)
	}
	return c.Render(http.StatusOK, "field", findField(d, spec.Name))
}

// ToggleField POST /admin/users/new/toggle/:field
func (h *Handler) ToggleField(c echo.Context) error {
	spec, err := fieldParam(c)
	if err != nil {
		return err
	}
	d := h.session(c).Dialog
	if _, err := d.Toggle(spec.Name); err != nil {
		return dialogError(err)
	}
	return c.Render(http.StatusOK, "field", findField(d, spec.Name))
}

// Submit POST /admin/users
// 整張表單送出；成功後導回列表，失敗或驗證錯誤則重新渲染 dialog
func (h *Handler) Submit(c echo.Context) error {
	s := h.session(c)
	d := s.Dialog
	// 送出中不覆寫欄位
	if d.IsSubmitting() {
		return dialogError(form.ErrSubmitting)
	}
	// 已關閉的 dialog 保留取消前的草稿
	if !d.IsOpen() {
		return dialogError(form.ErrClosed)
	}

	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	var values form.Values
	if err := decoder.Decode(&values, params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	if err := apply(d, values); err != nil {
		return dialogError(err)
	}

	outcome, err := d.Submit(c.Request().Context())
	if err != nil {
		return dialogError(err)
	}
	h.log.Debug("dialog submitted", zap.String("session", s.ID), zap.Stringer("outcome", outcome))
	if outcome == form.OutcomeCreated {
		return redirect(c, UsersPath)
	}
	return h.renderDialog(c, s)
}

// CancelDialog POST /admin/users/new/cancel
func (h *Handler) CancelDialog(c echo.Context) error {
	h.session(c).Dialog.Close()
	if isHTMX(c) {
		return c.HTML(http.StatusOK, "")
	}
	return c.Redirect(http.StatusSeeOther, UsersPath)
}

func (h *Handler) renderDialog(c echo.Context, s *session.Session) error {
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, UsersPath)
	}
	view := newDialogView(s.Dialog)
	view.Toasts = h.drainToasts(c.Request().Context(), s.ID)
	return c.Render(http.StatusOK, "dialog", view)
}

func apply(d *form.Dialog, v form.Values) error {
	for _, spec := range form.Specs {
		var err error
		if spec.Checkbox() {
			err = d.SetFlag(spec.Name, v.Flag(spec.Name))
		} else {
			err = d.Set(spec.Name, v.Text(spec.Name))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
