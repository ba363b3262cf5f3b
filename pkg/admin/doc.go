// Package admin provides the REST API and embedded admin page for managing
// offers.
//
// Every offer endpoint requires an authenticated session with the
// administrator role. Unauthenticated requests are redirected to /login;
// authenticated requests without the administrator role receive 403.
//
// Error responses share one body shape: {"message": string, "code": number}.
// The documented failure codes are 400 (validation), 530 (create write
// failed), 531 (upsert failed), and 532 (remove failed).
package admin
