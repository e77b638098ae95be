package domain

// Actor identifies the operator performing a mutation.
type Actor struct {
	ID    string
	Email string
	Name  string
}

// Anonymous is the fallback identity used when no actor is configured.
var Anonymous = Actor{
	ID:    "anonymous",
	Email: "unknown@example.com",
	Name:  "Anonymous User",
}

// OrAnonymous returns the actor, substituting the anonymous fallback
// for any blank identity field.
func (a Actor) OrAnonymous() Actor {
	if a.ID == "" {
		a.ID = Anonymous.ID
	}
	if a.Email == "" {
		a.Email = Anonymous.Email
	}
	if a.Name == "" {
		a.Name = Anonymous.Name
	}
	return a
}

// IsZero reports whether no identity field is set.
func (a Actor) IsZero() bool {
	return a.ID == "" && a.Email == "" && a.Name == ""
}
