package learning

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Owner is the optional user a Journey belongs to. The zero value is
// unassigned. Stored as a nullable owner_user_id column.
type Owner struct {
	userID   uuid.UUID
	assigned bool
}

func Unassigned() Owner { return Owner{} }

func AssignedTo(userID uuid.UUID) Owner {
	if userID == uuid.Nil {
		return Owner{}
	}
	return Owner{userID: userID, assigned: true}
}

func (o Owner) IsAssigned() bool { return o.assigned }

// UserID returns the owner and whether the journey is assigned at all.
func (o Owner) UserID() (uuid.UUID, bool) { return o.userID, o.assigned }

func (o Owner) Is(userID uuid.UUID) bool { return o.assigned && o.userID == userID }

func (o Owner) String() string {
	if !o.assigned {
		return "unassigned"
	}
	return o.userID.String()
}

func (Owner) GormDataType() string { return "uuid" }

func (o *Owner) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*o = Owner{}
		return nil
	case string:
		return o.parse(v)
	case []byte:
		return o.parse(string(v))
	default:
		return fmt.Errorf("learning.Owner: cannot scan %T", value)
	}
}

func (o *Owner) parse(s string) error {
	if s == "" {
		*o = Owner{}
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("learning.Owner: %w", err)
	}
	*o = AssignedTo(id)
	return nil
}

func (o Owner) Value() (driver.Value, error) {
	if !o.assigned {
		return nil, nil
	}
	return o.userID.String(), nil
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if !o.assigned {
		return []byte("null"), nil
	}
	return json.Marshal(o.userID.String())
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Owner{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return o.parse(s)
}
