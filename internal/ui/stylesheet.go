package ui

const stylesheet = `
:root{color-scheme:light dark;--fg:#1f2328;--muted:#59636e;--border:#d1d9e0;--accent:#0969da;--ok:#1a7f37;--bad:#cf222e;--bg:#fff;--card:#f6f8fa}
@media (prefers-color-scheme:dark){:root{--fg:#f0f6fc;--muted:#9198a1;--border:#3d444d;--accent:#4493f8;--ok:#3fb950;--bad:#f85149;--bg:#0d1117;--card:#151b23}}
body{margin:0;font-family:Inter,system-ui,sans-serif;color:var(--fg);background:var(--bg)}
.app-shell{display:grid;grid-template-columns:240px 1fr;min-height:100vh}
.app-sidebar{border-right:1px solid var(--border);padding:16px}
.app-nav a{display:block;padding:6px 8px;border-radius:6px;color:inherit;text-decoration:none}
.app-nav a.active{background:var(--card);font-weight:600}
.app-main{padding:24px;max-width:960px}
.card{border:1px solid var(--border);border-radius:6px;padding:16px;margin-bottom:16px;background:var(--card)}
.muted{color:var(--muted);font-size:12px}
.field{display:grid;grid-template-columns:200px 1fr;gap:8px;align-items:center;margin-bottom:8px}
.mandatory{color:var(--bad)}
.btn{padding:6px 14px;border-radius:6px;border:1px solid var(--border);cursor:pointer}
.btn-primary{background:var(--accent);color:#fff;border-color:var(--accent)}
.Label{display:inline-block;padding:0 8px;border-radius:10px;border:1px solid currentColor;font-size:12px}
.Label--success{color:var(--ok)}
.Label--danger{color:var(--bad)}
pre{white-space:pre-wrap;word-break:break-all}
table{border-collapse:collapse;width:100%}
th,td{text-align:left;padding:6px 8px;border-bottom:1px solid var(--border)}
`
