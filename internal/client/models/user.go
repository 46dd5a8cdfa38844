package models

// User is the authenticated account as seen by the client. Only the session
// store mutates it; other components read it by reference.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Profile   *Profile `json:"profile,omitempty"`
}

// Profile holds the optional account details attached to a user.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role,omitempty"`
}

// ProfileUpdate is a partial profile mutation; nil fields are omitted
// from the request body.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Company   *string `json:"company,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// Apply overlays the non-nil fields of the update onto a copy of p and
// returns it. The receiver is not modified.
func (p Profile) Apply(u ProfileUpdate) Profile {
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.Company != nil {
		p.Company = *u.Company
	}
	if u.Role != nil {
		p.Role = *u.Role
	}
	return p
}

// GPSApplication is a request for a new tracking device, submitted from the
// get-gps flow before the user owns any hardware.
type GPSApplication struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	VehicleCount string `json:"vehicleCount"`
}
