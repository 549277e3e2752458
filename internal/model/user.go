package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// Role membership is expressed as three independent boolean flags
// rather than a single enum: an account may hold more than one
// role at a time (an admin is typically also a customer).
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name supplied at registration.
//  LastName     – family name supplied at registration.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – whether the account is active (false = soft deleted).
//  IsAdmin      – administrative privileges flag.
//  IsSupplier   – supplier (seller) privileges flag.
//  IsCustomer   – customer privileges flag.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	IsAdmin      bool      // users.is_admin
	IsSupplier   bool      // users.is_supplier
	IsCustomer   bool      // users.is_customer
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
