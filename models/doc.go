// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateTotRequest: title, options A/B (C optional), visibility, expiry
  - VoteRequest: option ("A", "B", or "C")
  - RegisterRequest / LoginRequest: account credentials
  - UploadURLRequest: filename, contentType

# Response Types

Types for JSON responses:

  - ListTotsResponse: tots, total, page, limit
  - TotResults: tot plus percentageA/B/C
  - VoteStatusResponse: hasVoted, votedOption
  - AuthResponse: user, token
  - UploadURLResponse: uploadUrl, publicUrl
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Tot: a This-or-That poll with denormalized vote counters. The counters
    (totalVotes, optionAVotes, optionBVotes, optionCVotes) are a projection of
    the votes table, maintained by atomic increments; totalVotes always equals
    the sum of the option counters.
  - Vote: one immutable row per (tot, voter key) in the vote ledger
  - User: registered account

# Constants

Option letters:

	OptionA = "A"
	OptionB = "B"
	OptionC = "C"

Field limits:

	MaxTitleLen       = 120
	MaxDescriptionLen = 250
	MaxOptionTextLen  = 100
*/
package models
