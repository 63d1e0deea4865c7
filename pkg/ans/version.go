package ans

// Version is the current version of the ans module.
const Version = "1.0.0"
