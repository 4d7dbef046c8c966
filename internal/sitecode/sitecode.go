package sitecode

import (
	"fmt"
	"strings"
)

// Code identifies one annotation kind.
type Code int

const (
	Unknown Code = iota

	// Identifying information
	AlternativeTitle
	AlternativeForeignTitle
	DiscTitleNonLatin
	EditionNonLatin
	Filename
	Genre
	HighSierraVolumeDescriptor
	InternalName
	InternalSerialName
	Multisession
	Series
	TitleID
	UniversalHash
	VolumeLabel
	XeMID
	XMID

	// Disc and medium identifiers
	BBFCRegistrationNumber
	CompatibleOS
	DiscHologramID
	DNASDiscID
	ISBN
	ISSN
	PPN
	RingNonZeroDataStart
	RingPerfectAudioOffset
	VFCCode

	// Hashes, versions, and flags
	DMIHash
	LogsLink
	PFIHash
	PostgapType
	Protection
	SSHash
	SSVersion
	VCD

	// Publisher and company identifiers
	AcclaimID
	ActivisionID
	BandaiID
	BethesdaID
	CDProjektID
	EidosID
	ElectronicArtsID
	FoxInteractiveID
	GTInteractiveID
	HasbroID
	InterplayID
	JASRACID
	KingRecordsID
	KoeiID
	KonamiID
	LucasArtsID
	MicrosoftID
	NaganoID
	NamcoID
	NipponIchiSoftwareID
	OriginID
	PonyCanyonID
	SegaID
	SelenID
	SierraID
	TaitoID
	UbisoftID
	ValveID

	// Content listings
	Applications
	Extras
	GameFootage
	Games
	NetYarozeGames
	Patches
	PlayableDemos
	RollingDemos
	Savegames
	TechDemos
	Videos

	codeCount
)

// Info describes how a Code is named and rendered.
type Info struct {
	Code      Code
	Name      string
	Short     string
	Long      string
	MultiLine bool
	Boolean   bool
}

var table = [codeCount]Info{
	AlternativeTitle:           {Name: "AlternativeTitle", Short: "[T:ALT]", Long: "<b>Alternative Title</b>:"},
	AlternativeForeignTitle:    {Name: "AlternativeForeignTitle", Short: "[T:ALTF]", Long: "<b>Alternative Foreign Title</b>:"},
	DiscTitleNonLatin:          {Name: "DiscTitleNonLatin", Short: "[T:DTNL]", Long: "<b>Disc Title (non-Latin)</b>:"},
	EditionNonLatin:            {Name: "EditionNonLatin", Short: "[T:ENL]", Long: "<b>Edition (non-Latin)</b>:"},
	Filename:                   {Name: "Filename", Short: "[T:FN]", Long: "<b>Filename</b>:", MultiLine: true},
	Genre:                      {Name: "Genre", Short: "[T:GENRE]", Long: "<b>Genre</b>:"},
	HighSierraVolumeDescriptor: {Name: "HighSierraVolumeDescriptor", Short: "[T:HSVD]", Long: "<b>High Sierra Volume Descriptor</b>:", MultiLine: true},
	InternalName:               {Name: "InternalName", Short: "[T:IN]", Long: "<b>Internal Name</b>:"},
	InternalSerialName:         {Name: "InternalSerialName", Short: "[T:ISN]", Long: "<b>Internal Serial</b>:"},
	Multisession:               {Name: "Multisession", Short: "[T:MULTISESSION]", Long: "<b>Multisession</b>:", MultiLine: true},
	Series:                     {Name: "Series", Short: "[T:S]", Long: "<b>Series</b>:"},
	TitleID:                    {Name: "TitleID", Short: "[T:TITLEID]", Long: "<b>Title ID</b>:"},
	UniversalHash:              {Name: "UniversalHash", Short: "[T:UH]", Long: "<b>Universal Hash (SHA-1)</b>:"},
	VolumeLabel:                {Name: "VolumeLabel", Short: "[T:VOLUMELABEL]", Long: "<b>Volume Label</b>:"},
	XeMID:                      {Name: "XeMID", Short: "[T:XEMID]", Long: "<b>XeMID</b>:"},
	XMID:                       {Name: "XMID", Short: "[T:XMID]", Long: "<b>XMID</b>:"},

	BBFCRegistrationNumber: {Name: "BBFCRegistrationNumber", Short: "[T:BBFC]", Long: "<b>BBFC Reg. No.</b>:"},
	CompatibleOS:           {Name: "CompatibleOS", Short: "[T:COS]", Long: "<b>Compatible OS</b>:"},
	DiscHologramID:         {Name: "DiscHologramID", Short: "[T:DHID]", Long: "<b>Disc Hologram ID</b>:"},
	DNASDiscID:             {Name: "DNASDiscID", Short: "[T:DNAS]", Long: "<b>DNAS Disc ID</b>:"},
	ISBN:                   {Name: "ISBN", Short: "[T:ISBN]", Long: "<b>ISBN</b>:"},
	ISSN:                   {Name: "ISSN", Short: "[T:ISSN]", Long: "<b>ISSN</b>:"},
	PPN:                    {Name: "PPN", Short: "[T:PPN]", Long: "<b>PPN</b>:"},
	RingNonZeroDataStart:   {Name: "RingNonZeroDataStart", Short: "[T:RNZDS]", Long: "<b>Ring non-zero data start</b>:"},
	RingPerfectAudioOffset: {Name: "RingPerfectAudioOffset", Short: "[T:RPAO]", Long: "<b>Ring Perfect Audio Offset</b>:"},
	VFCCode:                {Name: "VFCCode", Short: "[T:VFC]", Long: "<b>VFC code</b>:"},

	DMIHash:     {Name: "DMIHash", Short: "[T:DMIHASH]", Long: "<b>DMI</b>:"},
	LogsLink:    {Name: "LogsLink", Short: "[T:LOGS]", Long: "<b>Logs Link</b>:"},
	PFIHash:     {Name: "PFIHash", Short: "[T:PFIHASH]", Long: "<b>PFI</b>:"},
	PostgapType: {Name: "PostgapType", Short: "[T:PT2]", Long: "<b>Postgap type</b>: Form 2", Boolean: true},
	Protection:  {Name: "Protection", Short: "[T:PROT]", Long: "<b>Protection</b>:"},
	SSHash:      {Name: "SSHash", Short: "[T:SSHASH]", Long: "<b>SS</b>:"},
	SSVersion:   {Name: "SSVersion", Short: "[T:SSVERSION]", Long: "<b>SS version</b>:"},
	VCD:         {Name: "VCD", Short: "[T:VCD]", Long: "<b>VCD</b>", Boolean: true},

	AcclaimID:            {Name: "AcclaimID", Short: "[T:ACC]", Long: "<b>Acclaim ID</b>:"},
	ActivisionID:         {Name: "ActivisionID", Short: "[T:ACT]", Long: "<b>Activision ID</b>:"},
	BandaiID:             {Name: "BandaiID", Short: "[T:BID]", Long: "<b>Bandai ID</b>:"},
	BethesdaID:           {Name: "BethesdaID", Short: "[T:BETHESDA]", Long: "<b>Bethesda ID</b>:"},
	CDProjektID:          {Name: "CDProjektID", Short: "[T:CDP]", Long: "<b>CD Projekt ID</b>:"},
	EidosID:              {Name: "EidosID", Short: "[T:EID]", Long: "<b>Eidos ID</b>:"},
	ElectronicArtsID:     {Name: "ElectronicArtsID", Short: "[T:EAID]", Long: "<b>Electronic Arts ID</b>:"},
	FoxInteractiveID:     {Name: "FoxInteractiveID", Short: "[T:FXID]", Long: "<b>Fox Interactive ID</b>:"},
	GTInteractiveID:      {Name: "GTInteractiveID", Short: "[T:GTID]", Long: "<b>GT Interactive ID</b>:"},
	HasbroID:             {Name: "HasbroID", Short: "[T:HID]", Long: "<b>Hasbro ID</b>:"},
	InterplayID:          {Name: "InterplayID", Short: "[T:IID]", Long: "<b>Interplay ID</b>:"},
	JASRACID:             {Name: "JASRACID", Short: "[T:JID]", Long: "<b>JASRAC ID</b>:"},
	KingRecordsID:        {Name: "KingRecordsID", Short: "[T:KIRZ]", Long: "<b>King Records ID</b>:"},
	KoeiID:               {Name: "KoeiID", Short: "[T:KOEI]", Long: "<b>Koei ID</b>:"},
	KonamiID:             {Name: "KonamiID", Short: "[T:KID]", Long: "<b>Konami ID</b>:"},
	LucasArtsID:          {Name: "LucasArtsID", Short: "[T:LAID]", Long: "<b>Lucasfilm ID</b>:"},
	MicrosoftID:          {Name: "MicrosoftID", Short: "[T:MSID]", Long: "<b>Microsoft ID</b>:"},
	NaganoID:             {Name: "NaganoID", Short: "[T:NGID]", Long: "<b>Nagano ID</b>:"},
	NamcoID:              {Name: "NamcoID", Short: "[T:NID]", Long: "<b>Namco ID</b>:"},
	NipponIchiSoftwareID: {Name: "NipponIchiSoftwareID", Short: "[T:NPS]", Long: "<b>Nippon Ichi Software ID</b>:"},
	OriginID:             {Name: "OriginID", Short: "[T:OID]", Long: "<b>Origin ID</b>:"},
	PonyCanyonID:         {Name: "PonyCanyonID", Short: "[T:PCID]", Long: "<b>Pony Canyon ID</b>:"},
	SegaID:               {Name: "SegaID", Short: "[T:SID]", Long: "<b>Sega ID</b>:"},
	SelenID:              {Name: "SelenID", Short: "[T:SELID]", Long: "<b>Selen ID</b>:"},
	SierraID:             {Name: "SierraID", Short: "[T:SIID]", Long: "<b>Sierra ID</b>:"},
	TaitoID:              {Name: "TaitoID", Short: "[T:TID]", Long: "<b>Taito ID</b>:"},
	UbisoftID:            {Name: "UbisoftID", Short: "[T:UID]", Long: "<b>Ubisoft ID</b>:"},
	ValveID:              {Name: "ValveID", Short: "[T:VID]", Long: "<b>Valve ID</b>:"},

	Applications:   {Name: "Applications", Short: "[T:APP]", Long: "<b>Applications</b>:", MultiLine: true},
	Extras:         {Name: "Extras", Short: "[T:EXTRAS]", Long: "<b>Extras</b>:", MultiLine: true},
	GameFootage:    {Name: "GameFootage", Short: "[T:GF]", Long: "<b>Game Footage</b>:", MultiLine: true},
	Games:          {Name: "Games", Short: "[T:G]", Long: "<b>Games</b>:", MultiLine: true},
	NetYarozeGames: {Name: "NetYarozeGames", Short: "[T:NYG]", Long: "<b>Net Yaroze Games</b>:", MultiLine: true},
	Patches:        {Name: "Patches", Short: "[T:PATCHES]", Long: "<b>Patches</b>:", MultiLine: true},
	PlayableDemos:  {Name: "PlayableDemos", Short: "[T:PD]", Long: "<b>Playable Demos</b>:", MultiLine: true},
	RollingDemos:   {Name: "RollingDemos", Short: "[T:RD]", Long: "<b>Rolling Demos</b>:", MultiLine: true},
	Savegames:      {Name: "Savegames", Short: "[T:SAVE]", Long: "<b>Savegames</b>:", MultiLine: true},
	TechDemos:      {Name: "TechDemos", Short: "[T:TD]", Long: "<b>Tech Demos</b>:", MultiLine: true},
	Videos:         {Name: "Videos", Short: "[T:V]", Long: "<b>Videos</b>:", MultiLine: true},
}

var (
	byName  = map[string]Code{}
	byShort = map[string]Code{}
)

func init() {
	for i := Code(1); i < codeCount; i++ {
		table[i].Code = i
		byName[strings.ToLower(table[i].Name)] = i
		byShort[table[i].Short] = i
	}
}

// All returns every defined code in declaration order.
func All() []Code {
	codes := make([]Code, 0, codeCount-1)
	for i := Code(1); i < codeCount; i++ {
		codes = append(codes, i)
	}
	return codes
}

// Lookup returns the static description of c.
func (c Code) Lookup() (Info, bool) {
	if c <= Unknown || c >= codeCount {
		return Info{}, false
	}
	return table[c], true
}

func (c Code) String() string {
	if info, ok := c.Lookup(); ok {
		return info.Name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// ShortName is the tag written into generated reports, e.g. "[T:ISN]".
func (c Code) ShortName() string {
	info, _ := c.Lookup()
	return info.Short
}

// LongName is the label used in catalog-sourced free text.
func (c Code) LongName() string {
	info, _ := c.Lookup()
	return info.Long
}

func (c Code) IsMultiLine() bool {
	info, _ := c.Lookup()
	return info.MultiLine
}

func (c Code) IsBoolean() bool {
	info, _ := c.Lookup()
	return info.Boolean
}

// MarshalText encodes the code by its stable identifier so tag maps serialize
// with readable keys.
func (c Code) MarshalText() ([]byte, error) {
	info, ok := c.Lookup()
	if !ok {
		return nil, fmt.Errorf("sitecode: cannot marshal unknown code %d", int(c))
	}
	return []byte(info.Name), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	code, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("sitecode: unknown code %q", string(text))
	}
	*c = code
	return nil
}

// Parse resolves a stable identifier (case-insensitive) to a Code.
func Parse(name string) (Code, bool) {
	code, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// FromShortName resolves a render tag such as "[T:G]" to its Code.
func FromShortName(tag string) (Code, bool) {
	code, ok := byShort[strings.TrimSpace(tag)]
	return code, ok
}
