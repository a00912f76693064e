package records

// MemberKeys are the envelope properties probed for member lists.
var MemberKeys = []string{"members"}

const defaultMaxBooks = 5

// NormalizeMember builds a Member from one decoded record at position index.
func NormalizeMember(raw any, index int) Member {
	m := object(raw)
	if m == nil {
		return Member{
			ID:             idFrom(nil, index),
			Name:           "Unknown Member",
			Email:          "—",
			Phone:          "—",
			Status:         "Active",
			MembershipType: "Public",
			MaxBooks:       defaultMaxBooks,
		}
	}

	mem := Member{
		ID:             idFrom(m, index, "id", "member_id", "_id"),
		Name:           pickText(m, "name", "full_name", "fullName"),
		Email:          pickText(m, "email", "email_address"),
		Phone:          pickText(m, "phone", "phone_number", "phoneNumber"),
		Status:         pickText(m, "status"),
		MembershipType: pickText(m, "membershipType", "type", "membership_type"),
		JoinDate:       pickTime(m, "join_date", "joinDate", "joined_at", "created_at", "createdAt"),
		BooksIssued:    intOr(pick(m, "booksIssued", "books_issued", "active_loans", "issued_count"), 0),
		MaxBooks:       intOr(pick(m, "maxBooks", "max_books"), 0),
	}
	if mem.Name == "" {
		mem.Name = joinName(m)
	}
	if mem.Name == "" {
		mem.Name = "Unknown Member"
	}
	if mem.Email == "" {
		mem.Email = "—"
	}
	if mem.Phone == "" {
		mem.Phone = "—"
	}
	if mem.Status == "" {
		mem.Status = "Active"
		if active, ok := m["is_active"].(bool); ok && !active {
			mem.Status = "Inactive"
		}
	}
	if mem.MembershipType == "" {
		mem.MembershipType = "Public"
	}
	if mem.BooksIssued < 0 {
		mem.BooksIssued = 0
	}
	if mem.MaxBooks <= 0 {
		mem.MaxBooks = defaultMaxBooks
	}
	return mem
}

// NormalizeMembers flattens a member list payload.
func NormalizeMembers(raw any) []Member {
	items := Collection(raw, MemberKeys...)
	out := make([]Member, 0, len(items))
	for i, it := range items {
		out = append(out, NormalizeMember(it, i))
	}
	return out
}

// MemberLabel picks a display name from a member that may be a string or a
// nested object.
func MemberLabel(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if s := pickText(v, "name"); s != "" {
			return s
		}
		if s := joinName(v); s != "" {
			return s
		}
		if s := pickText(v, "email"); s != "" {
			return s
		}
		if s := pickText(v, "id"); s != "" {
			return "Member #" + s
		}
	}
	return ""
}
