// Command scenegroup inspects scene-group catalogs, manages an addressable
// content directory and runs catalog loads against an in-process runtime.
package main
