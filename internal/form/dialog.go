package form

import (
	"context"
	"errors"
	"sync"

	"admin-console/internal/api"
	"admin-console/internal/notify"

	"go.uber.org/zap"
)

const (
	SuccessTitle   = "Success!"
	SuccessMessage = "User created successfully."
	FailureTitle   = "Something went wrong."
)

var (
	ErrSubmitting   = errors.New("form: a submission is already in progress")
	ErrClosed       = errors.New("form: dialog is closed")
	ErrUnknownField = errors.New("form: unknown field")
	ErrNotCheckbox  = errors.New("form: field is not a checkbox")
)

// State is the dialog's position in its submission lifecycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Outcome is the result of a completed Submit.
type Outcome int

const (
	OutcomeInvalid Outcome = iota + 1
	OutcomeCreated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeCreated:
		return "created"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Creator performs the remote "create user" operation.
type Creator interface {
	CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error)
}

// CreatorFunc adapts a plain function to Creator.
type CreatorFunc func(ctx context.Context, req api.UserCreate) (*api.User, error)

func (f CreatorFunc) CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error) {
	return f(ctx, req)
}

type Options struct {
	Creator  Creator
	Notifier notify.Notifier
	// OnClose fires once each time an open dialog closes, by cancel or by
	// a successful submission.
	OnClose func()
	Logger  *zap.Logger
}

// Dialog owns the state of one Add User dialog. It is safe for concurrent
// use; at most one creation request is in flight at a time.
type Dialog struct {
	creator  Creator
	notifier notify.Notifier
	onClose  func()
	log      *zap.Logger

	mu     sync.Mutex
	open   bool
	state  State
	values Values
	errors Errors
}

func NewDialog(opts Options) *Dialog {
	d := &Dialog{
		creator:  opts.Creator,
		notifier: opts.Notifier,
		onClose:  opts.OnClose,
		log:      opts.Logger,
		errors:   Errors{},
	}
	if d.notifier == nil {
		d.notifier = notify.Discard
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	return d
}

// Open shows the dialog. Values left over from a cancelled session are kept.
func (d *Dialog) Open() {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
}

// Close hides the dialog without submitting or resetting it.
func (d *Dialog) Close() {
	d.mu.Lock()
	wasOpen := d.open
	d.open = false
	d.mu.Unlock()
	if wasOpen && d.onClose != nil {
		d.onClose()
	}
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// IsSubmitting reports whether the submit control should render as loading.
func (d *Dialog) IsSubmitting() bool {
	return d.State() == StateSubmitting
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Values returns a copy of the current field values.
func (d *Dialog) Values() Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values
}

// Errors returns a copy of the displayed validation errors.
func (d *Dialog) Errors() Errors {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(Errors, len(d.errors))
	for k, v := range d.errors {
		out[k] = v
	}
	return out
}

// Fields returns the render view of every field in display order.
func (d *Dialog) Fields() []Field {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Field, 0, len(Specs))
	for _, s := range Specs {
		f := Field{Spec: s, Error: d.errors[s.Name]}
		if s.Checkbox() {
			f.Checked = d.values.Flag(s.Name)
		} else {
			f.Value = d.values.Text(s.Name)
		}
		out = append(out, f)
	}
	return out
}

// Set replaces the value of a text field.
func (d *Dialog) Set(name FieldName, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.setText(name, value)
}

// SetFlag replaces the value of a checkbox field.
func (d *Dialog) SetFlag(name FieldName, value bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values.setFlag(name, value)
}

// Toggle flips a checkbox field and returns its new value.
func (d *Dialog) Toggle(name FieldName) (bool, error) {
	s, ok := Lookup(name)
	if !ok {
		return false, ErrUnknownField
	}
	if !s.Checkbox() {
		return false, ErrNotCheckbox
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	next := !d.values.Flag(name)
	if err := d.values.setFlag(name, next); err != nil {
		return false, err
	}
	return next, nil
}

// Blur validates one field and updates its displayed error.
func (d *Dialog) Blur(name FieldName) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg, err := ValidateField(d.values, name)
	if err != nil {
		return "", err
	}
	if msg == "" {
		delete(d.errors, name)
	} else {
		d.errors[name] = msg
	}
	return msg, nil
}

// Submit validates every field and, when all rules pass, performs exactly
// one creation request. A failed request keeps the entered values; a
// successful one resets the dialog and closes it. The request is not
// cancelled when ctx is.
func (d *Dialog) Submit(ctx context.Context) (Outcome, error) {
	d.mu.Lock()
	if d.state == StateSubmitting {
		d.mu.Unlock()
		return 0, ErrSubmitting
	}
	if !d.open {
		d.mu.Unlock()
		return 0, ErrClosed
	}
	d.state = StateValidating
	d.errors = Validate(d.values)
	if len(d.errors) > 0 {
		d.state = StateIdle
		d.mu.Unlock()
		return OutcomeInvalid, nil
	}
	d.state = StateSubmitting
	req := d.values.Request()
	d.mu.Unlock()

	user, err := d.creator.CreateUser(context.WithoutCancel(ctx), req)

	d.mu.Lock()
	d.state = StateIdle
	if err != nil {
		d.mu.Unlock()
		d.log.Warn("create user failed", zap.String("email", req.Email), zap.Error(err))
		d.notify(ctx, notify.Error(FailureTitle, api.Detail(err)))
		return OutcomeFailed, nil
	}
	d.values = Values{}
	d.errors = Errors{}
	wasOpen := d.open
	d.open = false
	d.mu.Unlock()

	fields := []zap.Field{zap.String("email", req.Email)}
	if user != nil {
		fields = append(fields, zap.Int("user_id", user.ID))
	}
	d.log.Info("user created", fields...)
	d.notify(ctx, notify.Success(SuccessTitle, SuccessMessage))
	// Close during the request already fired it.
	if wasOpen && d.onClose != nil {
		d.onClose()
	}
	return OutcomeCreated, nil
}

func (d *Dialog) notify(ctx context.Context, t notify.Toast) {
	if err := d.notifier.Notify(context.WithoutCancel(ctx), t); err != nil {
		d.log.Error("notify", zap.String("title", t.Title), zap.Error(err))
	}
}
