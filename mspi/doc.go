/*Package mspi masks the synthetic ends of MspI-digested RRBS reads.

  In reduced-representation bisulfite sequencing, genomic DNA is cut with
  MspI (C^CGG) and the fragment ends are filled in before adapters are
  ligated. The last bases of a read that runs into a cut site were therefore
  synthesized in vitro and carry no methylation information. This package
  finds those reads and masks their filled-in ends so that downstream
  methylation callers ignore them.

  Pipeline:

    1) Pairing. The input is paired-end if any record carries the paired
       flag; the scan stops at the first such record.

    2) Mate splitting. For paired-end input, R1 is the set of first-in-pair
       records and R2 the set of second-in-pair records. Records that are
       neither are dropped. For single-end input every record is R1.

    3) Candidate sites. For every mapped R1 record the two bases just past
       its fragment end form a candidate cut remnant: [end, end+2) on the
       forward strand, [start-2, start) on the reverse strand. Candidates are
       deduplicated, so each distinct site is looked up once.

    4) Motif verification. Each candidate is extended four bases back into
       the read, fetched from the reference on the read's strand, and kept if
       the fetched bases match CCGG followed by at most two more bases at
       the end of the window. The kept candidates form the BlockSet, which is
       immutable from then on.

    5) Classification. An R1 record is MspPositive if its own candidate is in
       the BlockSet (same reference, coordinates and strand), else
       MspNegative.

    6) Correction. MspPositive records get their last three bases (forward
       strand) or first three bases (reverse strand) replaced by N, the
       matching qualities set to 0 and the matching XM methylation-call
       characters set to '.'. All other aux tags are left alone. A record
       whose end is already masked is passed through and counted apart, so
       running the tool on its own output changes nothing.

    7) Merge and report. Negative, corrected positive and R2 records are
       written in input order, so a coordinate-sorted input gives a
       coordinate-sorted output. Counters are written to a report file.

  Passes 3 and 5-7 each stream the input once. Candidate verification and
  per-batch classification and masking run in parallel; the BlockSet is
  complete before any record is classified.
*/
package mspi
