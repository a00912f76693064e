package records

// StaffKeys are the envelope properties probed for staff lists.
var StaffKeys = []string{"staff", "users"}

// NormalizeStaff builds a Staff record from one decoded user at position index.
func NormalizeStaff(raw any, index int) Staff {
	m := object(raw)
	s := Staff{
		ID:         idFrom(m, index, "id", "staff_id", "user_id"),
		Name:       pickText(m, "name", "full_name"),
		Username:   pickText(m, "username"),
		Email:      pickText(m, "email"),
		Phone:      pickText(m, "phone", "phone_number", "mobile"),
		Role:       pickText(m, "role"),
		Department: pickText(m, "department", "dept"),
		JoinDate:   pickTime(m, "join_date", "joinDate", "joined_at", "created_at", "createdAt"),
		Status:     pickText(m, "status"),
	}
	if s.Name == "" {
		s.Name = joinName(m)
	}
	if s.Name == "" {
		s.Name = s.Username
	}
	if s.Name == "" {
		s.Name = "Unknown"
	}
	if s.Role == "" {
		s.Role = RoleLibrarian
	}
	if s.Status == "" {
		s.Status = "Active"
	}
	return s
}

// NormalizeStaffList flattens a staff list payload.
func NormalizeStaffList(raw any) []Staff {
	items := Collection(raw, StaffKeys...)
	out := make([]Staff, 0, len(items))
	for i, it := range items {
		out = append(out, NormalizeStaff(it, i))
	}
	return out
}

// NormalizeUser builds the session identity from a profile record or token
// claims. Missing roles default to librarian.
func NormalizeUser(raw any) User {
	m := object(raw)
	u := User{
		ID:       idFrom(m, 0, "id", "sub", "user_id"),
		Username: pickText(m, "username"),
		Name:     pickText(m, "name", "full_name"),
		Email:    pickText(m, "email"),
		Role:     pickText(m, "role"),
	}
	if u.Name == "" {
		u.Name = joinName(m)
	}
	if u.Role == "" {
		u.Role = RoleLibrarian
	}
	return u
}
