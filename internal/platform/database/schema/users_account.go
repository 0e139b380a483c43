// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users_account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users_account
var UserAccount = UserAccountTable{
	Table:     "users_account",
	ID:        "id",
	Email:     "email",
	Password:  "passwordhash",
	Name:      "name",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.Name, t.CreatedAt, t.UpdatedAt}
}
