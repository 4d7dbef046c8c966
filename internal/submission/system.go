package submission

import (
	"sort"
	"strings"
)

// System identifies the platform a disc belongs to. Values are the catalog's
// short system codes.
type System string

const (
	SystemUnknown System = ""

	AcornArchimedes          System = "archcd"
	AppleMacintosh           System = "mac"
	AtariJaguarCD            System = "ajcd"
	AudioCD                  System = "audio-cd"
	BandaiPippin             System = "pippin"
	BandaiPlaydia            System = "playdia"
	BDVideo                  System = "bd-video"
	CommodoreAmigaCD         System = "acd"
	CommodoreAmigaCD32       System = "cd32"
	CommodoreAmigaCDTV       System = "cdtv"
	DVDVideo                 System = "dvd-video"
	EnhancedCD               System = "enhanced-cd"
	FujitsuFMTowns           System = "fmt"
	HDDVDVideo               System = "hddvd-video"
	IBMPCCompatible          System = "pc"
	IncredibleTechEagle      System = "ite"
	KonamiFireBeat           System = "kfb"
	KonamiSystem573          System = "ks573"
	MattelHyperScan          System = "hs"
	MemorexVIS               System = "vis"
	MicrosoftXbox            System = "xbox"
	MicrosoftXbox360         System = "xbox360"
	MicrosoftXboxOne         System = "xboxone"
	MicrosoftXboxSeriesXS    System = "xboxsx"
	NamcoSystem246           System = "ns246"
	NECPC88                  System = "pc-88"
	NECPC98                  System = "pc-98"
	NECPCEngineCD            System = "pce"
	NECPCFX                  System = "pc-fx"
	NintendoGameCube         System = "gc"
	NintendoWii              System = "wii"
	NintendoWiiU             System = "wiiu"
	PanasonicM2              System = "m2"
	Panasonic3DO             System = "3do"
	PhilipsCDi               System = "cdi"
	PhotoCD                  System = "photo-cd"
	RainbowDisc              System = "rainbow"
	SegaChihiro              System = "chihiro"
	SegaDreamcast            System = "dc"
	SegaLindbergh            System = "lindbergh"
	SegaMegaCD               System = "mcd"
	SegaNaomi                System = "naomi"
	SegaNaomi2               System = "naomi2"
	SegaRingEdge             System = "sre"
	SegaRingEdge2            System = "sre2"
	SegaSaturn               System = "ss"
	SegaTriforce             System = "triforce"
	SharpX68000              System = "x68k"
	SNKNeoGeoCD              System = "ngcd"
	SonyElectronicBook       System = "seb"
	SonyPlayStation          System = "psx"
	SonyPlayStation2         System = "ps2"
	SonyPlayStation3         System = "ps3"
	SonyPlayStation4         System = "ps4"
	SonyPlayStation5         System = "ps5"
	SonyPlayStationPortable  System = "psp"
	SuperAudioCD             System = "sacd"
	TABAustriaQuizard        System = "quizard"
	VideoCD                  System = "vcd"
	VMLabsNUON               System = "nuon"
	VTechVFlash              System = "vflash"
	ZAPiTGamesGameWaveFamily System = "gamewave"
)

type systemFlag uint8

const (
	// ringcodes are read from the outer edge inward on multi-layer discs
	flagReversedRingcodes systemFlag = 1 << iota
	// Xbox Game Disc, layerbreak is computed by the catalog
	flagXGD
	flagProtectionScan
	flagEXEDate
	flagAudio
	flagArcade
)

type systemInfo struct {
	name  string
	flags systemFlag
}

var systems = map[System]systemInfo{
	AcornArchimedes:          {name: "Acorn Archimedes"},
	AppleMacintosh:           {name: "Apple Macintosh", flags: flagProtectionScan},
	AtariJaguarCD:            {name: "Atari Jaguar CD Interactive Multimedia System"},
	AudioCD:                  {name: "Audio CD", flags: flagAudio},
	BandaiPippin:             {name: "Bandai Pippin"},
	BandaiPlaydia:            {name: "Bandai Playdia Quick Interactive System"},
	BDVideo:                  {name: "BD-Video"},
	CommodoreAmigaCD:         {name: "Commodore Amiga CD"},
	CommodoreAmigaCD32:       {name: "Commodore Amiga CD32"},
	CommodoreAmigaCDTV:       {name: "Commodore Amiga CDTV"},
	DVDVideo:                 {name: "DVD-Video"},
	EnhancedCD:               {name: "Enhanced CD", flags: flagProtectionScan | flagAudio},
	FujitsuFMTowns:           {name: "Fujitsu FM Towns series"},
	HDDVDVideo:               {name: "HD DVD-Video"},
	IBMPCCompatible:          {name: "IBM PC compatible", flags: flagProtectionScan},
	IncredibleTechEagle:      {name: "Incredible Technologies Eagle", flags: flagArcade},
	KonamiFireBeat:           {name: "Konami FireBeat", flags: flagArcade},
	KonamiSystem573:          {name: "Konami System 573", flags: flagArcade},
	MattelHyperScan:          {name: "Mattel HyperScan"},
	MemorexVIS:               {name: "Memorex Visual Information System"},
	MicrosoftXbox:            {name: "Microsoft Xbox", flags: flagXGD},
	MicrosoftXbox360:         {name: "Microsoft Xbox 360", flags: flagXGD},
	MicrosoftXboxOne:         {name: "Microsoft Xbox One"},
	MicrosoftXboxSeriesXS:    {name: "Microsoft Xbox Series X"},
	NamcoSystem246:           {name: "Namco System 246", flags: flagArcade},
	NECPC88:                  {name: "NEC PC-88 series"},
	NECPC98:                  {name: "NEC PC-98 series"},
	NECPCEngineCD:            {name: "NEC PC Engine CD & TurboGrafx CD"},
	NECPCFX:                  {name: "NEC PC-FX & PC-FXGA"},
	NintendoGameCube:         {name: "Nintendo GameCube"},
	NintendoWii:              {name: "Nintendo Wii"},
	NintendoWiiU:             {name: "Nintendo Wii U"},
	PanasonicM2:              {name: "Panasonic M2"},
	Panasonic3DO:             {name: "Panasonic 3DO Interactive Multiplayer"},
	PhilipsCDi:               {name: "Philips CD-i"},
	PhotoCD:                  {name: "Photo CD"},
	RainbowDisc:              {name: "Rainbow Disc", flags: flagProtectionScan},
	SegaChihiro:              {name: "Sega Chihiro", flags: flagArcade},
	SegaDreamcast:            {name: "Sega Dreamcast"},
	SegaLindbergh:            {name: "Sega Lindbergh", flags: flagArcade},
	SegaMegaCD:               {name: "Sega Mega CD & Sega CD"},
	SegaNaomi:                {name: "Sega Naomi", flags: flagArcade},
	SegaNaomi2:               {name: "Sega Naomi 2", flags: flagArcade},
	SegaRingEdge:             {name: "Sega RingEdge", flags: flagArcade},
	SegaRingEdge2:            {name: "Sega RingEdge 2", flags: flagArcade},
	SegaSaturn:               {name: "Sega Saturn"},
	SegaTriforce:             {name: "Namco Sega Nintendo Triforce", flags: flagArcade},
	SharpX68000:              {name: "Sharp X68000"},
	SNKNeoGeoCD:              {name: "SNK Neo Geo CD"},
	SonyElectronicBook:       {name: "Sony Electronic Book", flags: flagProtectionScan},
	SonyPlayStation:          {name: "Sony PlayStation", flags: flagEXEDate},
	SonyPlayStation2:         {name: "Sony PlayStation 2", flags: flagReversedRingcodes | flagEXEDate},
	SonyPlayStation3:         {name: "Sony PlayStation 3", flags: flagReversedRingcodes},
	SonyPlayStation4:         {name: "Sony PlayStation 4", flags: flagReversedRingcodes},
	SonyPlayStation5:         {name: "Sony PlayStation 5", flags: flagReversedRingcodes},
	SonyPlayStationPortable:  {name: "Sony PlayStation Portable", flags: flagReversedRingcodes},
	SuperAudioCD:             {name: "Super Audio CD", flags: flagAudio},
	TABAustriaQuizard:        {name: "TAB-Austria Quizard", flags: flagArcade},
	VideoCD:                  {name: "Video CD"},
	VMLabsNUON:               {name: "VM Labs NUON"},
	VTechVFlash:              {name: "VTech V.Flash & V.Smile Pro"},
	ZAPiTGamesGameWaveFamily: {name: "ZAPiT Games Game Wave Family Entertainment System"},
}

// Systems returns every known system ordered by display name.
func Systems() []System {
	out := make([]System, 0, len(systems))
	for s := range systems {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return systems[out[i]].name < systems[out[j]].name })
	return out
}

// ParseSystem accepts a short code or a display name, case-insensitively.
func ParseSystem(value string) (System, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return SystemUnknown, false
	}
	if _, ok := systems[System(strings.ToLower(value))]; ok {
		return System(strings.ToLower(value)), true
	}
	for s, info := range systems {
		if strings.EqualFold(info.name, value) {
			return s, true
		}
	}
	return SystemUnknown, false
}

// Known reports whether s is in the system table.
func (s System) Known() bool {
	_, ok := systems[s]
	return ok
}

// Name returns the display name, or the raw code for unknown systems.
func (s System) Name() string {
	if info, ok := systems[s]; ok {
		return info.name
	}
	return string(s)
}

func (s System) has(flag systemFlag) bool {
	return systems[s].flags&flag != 0
}

// HasReversedRingcodes reports whether multi-layer ringcodes on this system
// are numbered from the outer edge.
func (s System) HasReversedRingcodes() bool { return s.has(flagReversedRingcodes) }

// IsXGD reports whether the system ships on Xbox Game Discs.
func (s System) IsXGD() bool { return s.has(flagXGD) }

// SupportsProtectionScan reports whether copy protection is scanned for.
func (s System) SupportsProtectionScan() bool { return s.has(flagProtectionScan) }

// HasEXEDate reports whether the main executable embeds a build date.
func (s System) HasEXEDate() bool { return s.has(flagEXEDate) }

// IsAudio reports whether the system is an audio format identified by a
// universal hash rather than per-track hashes.
func (s System) IsAudio() bool { return s.has(flagAudio) }

// IsArcade reports whether the system is an arcade board.
func (s System) IsArcade() bool { return s.has(flagArcade) }
