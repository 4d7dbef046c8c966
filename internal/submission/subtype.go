package submission

import "strings"

// Byte sizes above which a layer count implies the denser BDXL format.
const (
	bd25MaxSize int64 = 26_843_531_856
	bd50MaxSize int64 = 53_687_063_712
)

// romUltra is the PIC disc type identifier of high-density BD-ROM.
const romUltra = "ROM Ultra"

// MediaSubtype names the precise disc subtype from size, layerbreaks, and
// the PIC identifier. Media without subtypes return their display name.
func MediaSubtype(media MediaType, sizes SizeAndChecksums) string {
	switch media {
	case MediaBluRay:
		return blurayType(sizes)
	case MediaDVD:
		if sizes.Layerbreak != 0 {
			return "DVD-9"
		}
		return "DVD-5"
	case MediaHDDVD:
		if sizes.Layerbreak != 0 {
			return "HD-DVD-DL"
		}
		return "HD-DVD-SL"
	case MediaUMD:
		if sizes.Layerbreak != 0 {
			return "UMD-DL"
		}
		return "UMD-SL"
	case MediaUnknown:
		return ""
	}
	return media.Name()
}

func blurayType(sizes SizeAndChecksums) string {
	ultra := strings.TrimSpace(sizes.PICIdentifier) == romUltra
	switch {
	case sizes.Layerbreak3 != 0:
		return "BD128"
	case sizes.Layerbreak2 != 0:
		return "BD100"
	case sizes.Layerbreak != 0 && (ultra || sizes.Size > bd50MaxSize):
		return "BD66"
	case sizes.Layerbreak != 0:
		return "BD50"
	case ultra || sizes.Size > bd25MaxSize:
		return "BD33"
	}
	return "BD25"
}
