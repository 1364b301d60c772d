package models

// Write results keep the shape the driver reports so existing clients read them unchanged.

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UserCreateResult is either an insert result or the "already exists" answer with a null id.
type UserCreateResult struct {
	Acknowledged bool        `json:"acknowledged,omitempty"`
	InsertedID   interface{} `json:"insertedId"`
	Message      string      `json:"message,omitempty"`
}

type SalaryUpdateResult struct {
	UpdateResult
	Updated bool `json:"updated"`
}

type ProductPage struct {
	TotalCount int64     `json:"totalCount"`
	Result     []Product `json:"result"`
}
