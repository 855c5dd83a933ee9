package surplus

// Version of the preprocessor, surfaced by the CLI banner.
const Version = "0.5.0"
