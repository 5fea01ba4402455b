package orc

// buildSyntheticORCFile assembles a minimal, uncompressed, single-stripe
// ORC-shaped byte stream by hand: a 2-column schema (id LONG, name
// STRING direct with 2 of 5 rows null), encoded with Integer RLE v1 and
// byte RLE throughout. There is no real .orc binary fixture in this
// repo, so the end-to-end test exercises this fixture instead and
// asserts against its own known, hand-computed counts.
func buildSyntheticORCFile() []byte {
	// --- stripe data region ---
	//
	// Chunk framing applies to every stream regardless of compression
	// kind: a NONE-compressed stream still carries a 3-byte chunk header
	// per chunk (isOriginal=1, since there is no codec to run), it just
	// never carries a compressed chunk. frameChunk wraps a stream's raw
	// bytes as a single stored chunk the way an on-disk NONE stream does.

	// column "id" (LONG): DATA stream only, RLE v1 literal frame [1,2,3,4,5].
	idData := frameChunk([]byte{0xFB, 0x01, 0x02, 0x03, 0x04, 0x05})

	// column "name" (STRING direct): present = [T,F,T,T,F] over 5 rows.
	// PRESENT: byte RLE literal of 1 byte, bits 10110000.
	namePresent := frameChunk([]byte{0xFF, 0b10110000})
	// DATA: raw concatenated bytes for the 3 present rows: "ann","bob","cal".
	nameData := frameChunk([]byte("annbobcal"))
	// LENGTH: RLE v1 same-run, 3 entries of value 3.
	nameLength := frameChunk([]byte{0x00, 0x00, 0x03})

	var stripeData []byte
	stripeData = append(stripeData, idData...)
	stripeData = append(stripeData, namePresent...)
	stripeData = append(stripeData, nameData...)
	stripeData = append(stripeData, nameLength...)

	// --- stripe footer ---

	var streamsBuf []byte
	appendStream := func(kind int32, column uint32, length int) {
		var s []byte
		s = appendVarintField(s, 1, uint64(kind))
		s = appendVarintField(s, 2, uint64(column))
		s = appendVarintField(s, 3, uint64(length))
		streamsBuf = appendBytesField(streamsBuf, 1, s)
	}
	appendStream(streamKindData, 1, len(idData))
	appendStream(streamKindPresent, 2, len(namePresent))
	appendStream(streamKindData, 2, len(nameData))
	appendStream(streamKindLength, 2, len(nameLength))

	appendEncoding := func(kind int32) {
		var e []byte
		e = appendVarintField(e, 1, uint64(kind))
		streamsBuf = appendBytesField(streamsBuf, 2, e)
	}
	appendEncoding(encodingDirect) // column 0, root struct
	appendEncoding(encodingDirect) // column 1, id
	appendEncoding(encodingDirect) // column 2, name

	// The StripeFooter protobuf message is itself read through the
	// decompressor at StripeInformation.footerLength bytes, so it too is
	// framed as a stored chunk.
	stripeFooterBytes := frameChunk(streamsBuf)

	// --- footer ---

	var stripeInfoBuf []byte
	stripeInfoBuf = appendVarintField(stripeInfoBuf, 1, 0)                       // offset
	stripeInfoBuf = appendVarintField(stripeInfoBuf, 2, 0)                       // indexLength
	stripeInfoBuf = appendVarintField(stripeInfoBuf, 3, uint64(len(stripeData))) // dataLength
	stripeInfoBuf = appendVarintField(stripeInfoBuf, 4, uint64(len(stripeFooterBytes)))
	stripeInfoBuf = appendVarintField(stripeInfoBuf, 5, 5) // numberOfRows

	var rootTypeBuf []byte
	rootTypeBuf = appendVarintField(rootTypeBuf, 1, 12) // kind: STRUCT (not a supported leaf, never checked)
	rootTypeBuf = appendBytesField(rootTypeBuf, 3, []byte("id"))
	rootTypeBuf = appendBytesField(rootTypeBuf, 3, []byte("name"))

	var idTypeBuf []byte
	idTypeBuf = appendVarintField(idTypeBuf, 1, uint64(typeKindLong))

	var nameTypeBuf []byte
	nameTypeBuf = appendVarintField(nameTypeBuf, 1, uint64(typeKindString))

	var footerRaw []byte
	footerRaw = appendBytesField(footerRaw, 3, stripeInfoBuf)
	footerRaw = appendBytesField(footerRaw, 4, rootTypeBuf)
	footerRaw = appendBytesField(footerRaw, 4, idTypeBuf)
	footerRaw = appendBytesField(footerRaw, 4, nameTypeBuf)

	// The Footer protobuf message is read through the decompressor at
	// PostScript.footerLength bytes, so it too is framed as a stored
	// chunk. The PostScript itself carries no framing; it is always read
	// as a bare, fixed-position tail.
	footerBuf := frameChunk(footerRaw)

	// --- postscript ---

	var psBuf []byte
	psBuf = appendVarintField(psBuf, 1, uint64(len(footerBuf)))
	psBuf = appendVarintField(psBuf, 2, uint64(compressionNone))

	var out []byte
	out = append(out, stripeData...)
	out = append(out, stripeFooterBytes...)
	out = append(out, footerBuf...)
	out = append(out, psBuf...)
	out = append(out, byte(len(psBuf)))
	return out
}

// frameChunk wraps payload as a single stored ("original") chunk: a
// 3-byte header (isOriginal=1, 23-bit length) followed by the bytes
// unchanged. Every ORC stream — including NONE-compressed ones — is
// framed this way on disk.
func frameChunk(payload []byte) []byte {
	return append(chunkHeader(len(payload), true), payload...)
}
