// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	recordColumns = `
		local_id,
		entity_type,
		server_id,
		payload,
		sync_status,
		is_deleted,
		local_version,
		server_version,
		created_at,
		updated_at,
		last_synced_at`

	insertRecord = `
		INSERT INTO records (
			local_id,
			entity_type,
			server_id,
			payload,
			sync_status,
			is_deleted,
			local_version,
			server_version,
			created_at,
			updated_at,
			last_synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	getRecord = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE local_id = ?;`

	getRecordByServerID = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE entity_type = ? AND server_id = ?;`

	listPendingRecords = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE entity_type = ? AND sync_status = 'pending'
		ORDER BY updated_at ASC;`

	listConflictRecords = `
		SELECT ` + recordColumns + `
		FROM records
		WHERE sync_status = 'conflict'
		ORDER BY entity_type ASC, updated_at ASC;`

	updateRecordPayload = `
		UPDATE records
		SET payload = ?,
		    sync_status = 'pending',
		    local_version = local_version + 1,
		    updated_at = ?
		WHERE local_id = ?;`

	softDeleteRecord = `
		UPDATE records
		SET is_deleted = 1,
		    sync_status = 'pending',
		    local_version = local_version + 1,
		    updated_at = ?
		WHERE local_id = ?;`

	destroyRecord = `
		DELETE FROM records
		WHERE local_id = ?;`

	// The version guard keeps an edit made while the push was on the wire
	// from being flipped to synced without ever reaching the server.
	markRecordSynced = `
		UPDATE records
		SET server_id = ?,
		    server_version = ?,
		    sync_status = 'synced',
		    last_synced_at = ?,
		    updated_at = ?
		WHERE local_id = ? AND local_version = ?;`

	destroyRecordIfUnchanged = `
		DELETE FROM records
		WHERE local_id = ? AND local_version = ?;`

	attachServerIdentity = `
		UPDATE records
		SET server_id = ?,
		    server_version = ?,
		    updated_at = ?
		WHERE local_id = ?;`

	markRecordPending = `
		UPDATE records
		SET sync_status = 'pending',
		    local_version = local_version + 1,
		    updated_at = ?
		WHERE local_id = ?;`

	setRecordStatus = `
		UPDATE records
		SET sync_status = ?,
		    updated_at = ?
		WHERE local_id = ?;`

	// The synced-state guard keeps a concurrent local edit from being
	// clobbered by an incoming pull.
	overwriteRecordFromServer = `
		UPDATE records
		SET payload = ?,
		    server_version = ?,
		    sync_status = 'synced',
		    last_synced_at = ?,
		    updated_at = ?
		WHERE local_id = ? AND sync_status = 'synced';`

	countPendingRecords = `
		SELECT COUNT(*)
		FROM records
		WHERE sync_status = 'pending';`

	getKVValue = `
		SELECT value
		FROM sync_kv
		WHERE key = ?;`

	setKVValue = `
		INSERT INTO sync_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	deleteKVValue = `
		DELETE FROM sync_kv
		WHERE key = ?;`
)
