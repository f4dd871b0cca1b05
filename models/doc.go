// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Candidate IDs

The ballot has exactly four slots:

	Calon1 = "calon1"
	Calon2 = "calon2"
	Calon3 = "calon3"
	Calon4 = "calon4"

Raw identifiers from requests go through ParseCandidateID, which wraps
ErrInvalidIdentifier for anything outside the set.

# Request Types

  - SaveCandidateRequest: calonId, nama, visiMisi, photoPath, photoData
  - CandidateIDRequest: calonId (submitVote, deleteCandidate)

# Response Types

  - UploadPhotoResponse: photoData (inline photo strategy)
  - ErrorResponse: error, message

# Domain Types

  - Candidate: stored candidate record, absent fields omitted from JSON
  - CandidateFields: partial update, nil means "keep stored value"
  - Tally: candidate -> vote count, always holding all four keys via NewTally
*/
package models
