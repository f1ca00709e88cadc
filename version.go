package reveal

// Version is the module version, overridden at build time with -ldflags.
var Version = "0.3.0-dev"
