/*
	Project: Sauti - students' feedback on their teachers.

	Binaries:
		apps/api   - JSON API (echo) used by the student, teacher and admin pages
		apps/admin - maintenance CLI: stats, export, clear, backup

	Feedback is kept in a single JSON file (storage/jsonfile); storage/inmem backs tests
	and throwaway runs.
*/
package sauti
