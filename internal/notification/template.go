package notification

// defaultReleaseTemplate is the built-in announcement body. It keeps
// the layout of the discohook message the group posts by hand: series
// and chapter names, the category label, a relative timestamp and one
// link per mirror domain.
const defaultReleaseTemplate = `**{{ .NovelTitle }}** vừa ra chương mới!

**{{ .ChapterHeading }}**

Danh mục: **{{ .Category }}**
Thời gian: <t:{{ .UnixTime }}:R>

- Link chap tên miền docln.net: {{ .LinkDocLNNet }}
- Link chap tên miền docln.sbs: {{ .LinkDocLNSBS }}
- Link chap tên miền ln.hako.vn: {{ .LinkHako }}`
