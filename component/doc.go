// Package component defines the core interfaces for lifecycle-managed
// infrastructure pieces in onionkit.
//
// Components represent services that require initialization, startup,
// shutdown, and health monitoring. They are registered with the bootstrap
// package for automatic lifecycle management: started in registration
// order, stopped in reverse.
//
// # Interfaces
//
//   - Component: core lifecycle interface (Start/Stop/Health)
//   - Describable: bootstrap summary descriptions
package component
