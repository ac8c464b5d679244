// Package video implements the object-tracking natives. Both functions
// take the search window as an output parameter and update it in place;
// package compose turns them into calls that return the window instead.
package video
