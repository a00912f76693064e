package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// Staff endpoints are probed on more than one path: the backend contract is
// unsettled, so /users is tried first and /auth/users on 404. This is a
// compatibility shim, not a supported dual API.
var (
	staffListPaths  = [][]string{{"auth", "users"}, {"users"}, {"staff"}}
	staffWritePaths = [][]string{{"users"}, {"auth", "users"}}
)

// StaffInput is staff form input. Username and Password are derived when blank.
type StaffInput struct {
	Name       string
	Username   string
	Email      string
	Password   string
	Role       string
	Phone      string
	Department string
}

// StaffCreated is the result of CreateStaff. TempPassword is set only when
// the password was generated, and is not retained anywhere else. Simulated
// is true when neither staff path exists on the backend.
type StaffCreated struct {
	Staff        records.Staff
	TempPassword string
	Simulated    bool
}

// StaffChanged is the result of UpdateStaff and DeleteStaff. Simulated is
// true when neither staff path exists on the backend and nothing changed.
type StaffChanged struct {
	Staff     records.Staff
	Simulated bool
}

type staffPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,mailshape"`
	Password string `json:"password" validate:"min=6"`
	Role     string `json:"role" validate:"oneof=admin librarian"`
}

type staffPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitnil,mailshape"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=6"`
	Role     *string `json:"role,omitempty" validate:"omitnil,oneof=admin librarian"`
}

var staffMessages = messages{
	"username":        "username must be a string",
	"email.required":  "email is required",
	"email.mailshape": "Please provide a valid email address",
	"password":        "password must be longer than or equal to 6 characters",
	"role":            "Invalid role",
}

// shapeStaff builds the create payload, deriving the username and generating
// a temporary password when absent. generated reports the latter.
func shapeStaff(in StaffInput) (p staffPayload, generated bool, err error) {
	p = staffPayload{
		Username: DeriveUsername(in.Username, in.Email, in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Role:     strings.ToLower(strings.TrimSpace(in.Role)),
	}
	if p.Role == "" {
		p.Role = records.RoleLibrarian
	}
	if p.Password == "" {
		p.Password = TempPassword()
		generated = true
	}
	return p, generated, check(p, staffMessages)
}

func shapeStaffPatch(in StaffInput) (staffPatch, error) {
	p := staffPatch{
		Username: optText(in.Username),
		Email:    optText(in.Email),
		Role:     optText(strings.ToLower(in.Role)),
	}
	if in.Password != "" {
		pw := in.Password
		p.Password = &pw
	}
	return p, check(p, staffMessages)
}

// ListStaff probes the staff paths in order and returns the first non-empty
// list. An empty list is returned when every path answers with no records.
func (c *Client) ListStaff(ctx context.Context) ([]records.Staff, error) {
	var firstErr error
	answered := false
	for _, path := range staffListPaths {
		raw, err := c.getRaw(ctx, c.url(path...))
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, toError(err, "Failed to load staff")
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		answered = true
		if list := records.NormalizeStaffList(raw); len(list) > 0 {
			return list, nil
		}
	}
	if answered {
		return []records.Staff{}, nil
	}
	return nil, toError(firstErr, "Failed to load staff")
}

// CreateStaff validates in and creates an account.
func (c *Client) CreateStaff(ctx context.Context, in StaffInput) (*StaffCreated, error) {
	p, generated, err := shapeStaff(in)
	if err != nil {
		return nil, err
	}
	res := &StaffCreated{}
	if generated {
		res.TempPassword = p.Password
	}

	var raw any
	err = c.probeWrite(ctx, http.MethodPost, nil, p, &raw)
	switch {
	case errors.Is(err, ErrNotFound):
		res.Simulated = true
		raw = map[string]any{}
	case err != nil:
		return nil, toError(err, "Failed to create staff member")
	}

	s := records.NormalizeStaff(unwrap(raw, "user"), -1)
	fillStaff(&s, in, p)
	res.Staff = s
	return res, nil
}

// UpdateStaff sends only the fields present in in.
func (c *Client) UpdateStaff(ctx context.Context, id records.ID, in StaffInput) (*StaffChanged, error) {
	p, err := shapeStaffPatch(in)
	if err != nil {
		return nil, err
	}
	var raw any
	err = c.probeWrite(ctx, http.MethodPatch, []string{id.String()}, p, &raw)
	switch {
	case errors.Is(err, ErrNotFound):
		return &StaffChanged{Staff: patchedStaff(id, p), Simulated: true}, nil
	case err != nil:
		return nil, toError(err, "Failed to update staff member")
	}
	rec := unwrap(raw, "user")
	s := records.NormalizeStaff(rec, -1)
	if m, _ := rec.(map[string]any); m["id"] == nil {
		s.ID = id
	}
	return &StaffChanged{Staff: s}, nil
}

// patchedStaff describes a simulated update from the patch alone.
func patchedStaff(id records.ID, p staffPatch) records.Staff {
	s := records.Staff{ID: id}
	if p.Username != nil {
		s.Username = *p.Username
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	return s
}

// DeleteStaff removes an account.
func (c *Client) DeleteStaff(ctx context.Context, id records.ID) (*StaffChanged, error) {
	err := c.probeWrite(ctx, http.MethodDelete, []string{id.String()}, nil, nil)
	switch {
	case errors.Is(err, ErrNotFound):
		return &StaffChanged{Staff: records.Staff{ID: id}, Simulated: true}, nil
	case err != nil:
		return nil, toError(err, "Failed to delete staff member")
	}
	return &StaffChanged{Staff: records.Staff{ID: id}}, nil
}

// probeWrite tries each staff write path, moving on only when the path is
// missing. It returns the last ErrNotFound when every path is missing.
func (c *Client) probeWrite(ctx context.Context, method string, tail []string, body, out any) error {
	var err error
	for _, path := range staffWritePaths {
		err = c.doJSON(ctx, method, c.url(append(append([]string{}, path...), tail...)...), body, out)
		if !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return err
}

// fillStaff completes a created record from the submitted input when the
// backend echoed a partial object.
func fillStaff(s *records.Staff, in StaffInput, p staffPayload) {
	if s.Email == "" {
		s.Email = p.Email
	}
	if s.Name == "Unknown" || s.Name == s.Username {
		s.Name = ""
	}
	if s.Username == "" {
		s.Username = p.Username
	}
	if s.Name == "" {
		s.Name = strings.TrimSpace(in.Name)
		if s.Name == "" {
			s.Name = p.Username
		}
	}
	if s.Phone == "" {
		s.Phone = strings.TrimSpace(in.Phone)
	}
	if s.Department == "" {
		s.Department = strings.TrimSpace(in.Department)
	}
	s.Role = p.Role
}
