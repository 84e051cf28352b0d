package config

// Where document snapshot is kept between runs.
// ENUM(file, sqlite)
type StoreDriver string
