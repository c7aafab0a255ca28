package epub

// stylesheet is the shared stylesheet every document links. Reading
// systems layer their own typography on top; this only spaces the
// structures the layouts emit.
const stylesheet = `body {
  margin: 1em;
  line-height: 1.5;
}

h1 {
  font-size: 1.6em;
  margin: 0 0 0.8em 0;
}

h2 {
  font-size: 1.3em;
  margin: 1.2em 0 0.4em 0;
}

h3 {
  font-size: 1.1em;
  margin: 1em 0 0.3em 0;
}

h2.module-header {
  border-bottom: 1px solid #999;
  padding-bottom: 0.2em;
}

p.posted {
  font-size: 0.85em;
  color: #555;
  margin-top: -0.3em;
}

ol.toc-entries {
  list-style: none;
  padding-left: 0;
}

ol.toc-entries li {
  margin: 0.4em 0;
}

span.toc-count {
  color: #555;
  font-size: 0.9em;
}

pre {
  padding: 0.6em;
  overflow-x: auto;
  font-size: 0.9em;
}

img {
  max-width: 100%;
}

div.cover {
  text-align: center;
  margin: 0;
}

div.cover img {
  max-height: 100%;
}
`
