package entsync

// Operation requested by an action.
// ENUM(add, update, delete)
type Op string

// Entity an action operates on.
// ENUM(character, event, relationship)
type Entity string
