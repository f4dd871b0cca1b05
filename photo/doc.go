// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package photo stores candidate photos.

Four strategies share the Store interface and are selected with
PHOTO_BACKEND:

	inline  base64 data URI kept in the candidate record (photoData)
	local   files under PHOTO_DIR
	gcs     Google Cloud Storage bucket PHOTO_BUCKET
	s3      AWS S3 bucket PHOTO_BUCKET in S3_REGION

Object strategies use the key candidates/<id>.jpg and return it as the
Handle, which is recorded in photoPath. Put rejects payloads above maxSize
with ErrPayloadTooLarge before contacting any backend. An empty content type
is stored as image/jpeg.
*/
package photo
