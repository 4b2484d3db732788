// Package mappers converts between remote rows and application entities.
//
// The functions are pure and total: missing remote fields are replaced by
// defaults and derived fields are recomputed, so for any entity e produced by
// a ToApp function, ToApp(ToRemote(e)) equals e apart from backend-owned
// timestamps.
package mappers
