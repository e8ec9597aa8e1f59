// Package models defines the core domain models for CashTrackr.
//
// # Models
//
//   - User: a registered account with a bcrypt password digest and an
//     optional pending verification action (email confirmation or
//     password reset)
//   - Budget: a spending budget owned by exactly one user
//   - Expense: a line item under a budget
//
// # Design Principles
//
//  1. Ownership lives on the budget: expenses inherit access control
//     from their parent budget and never carry a user ID themselves.
//  2. Relationships use ID strings instead of pointers to avoid
//     circular references.
//  3. The pending verification action is a tagged (kind, token, expiry)
//     triple rather than an untyped nullable string, so confirmation
//     and reset tokens cannot be confused for one another.
package models
