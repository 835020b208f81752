package reservation

type Status string

// StatusRequested only exists in memory between validation and the insert.
const (
	StatusRequested      Status = "requested"
	StatusConfirmed      Status = "confirmed"
	StatusCancelled      Status = "cancelled"
	StatusCascadeDeleted Status = "cascade_deleted"
)

var transitions = map[Status][]Status{
	StatusRequested: {StatusConfirmed},
	StatusConfirmed: {StatusCancelled, StatusCascadeDeleted},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusConfirmed, StatusCancelled, StatusCascadeDeleted:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCascadeDeleted
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
