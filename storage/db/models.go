package db

// Activity is one row of the operator audit trail. CreatedAt is unix
// milliseconds.
type Activity struct {
	ID        string
	Operator  string
	Screen    string
	Action    string
	RecordID  string
	Detail    string
	CreatedAt int64
}
